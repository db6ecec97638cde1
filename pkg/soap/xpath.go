package soap

import (
	"strings"

	"github.com/beevik/etree"
)

// ExtractXPath extracts the text value at the given XPath from a document.
// Returns an empty string if the path is not found.
//
// Supported XPath syntax:
//   - /path/to/element - absolute path
//   - //element - find anywhere in document
//   - /path/to/element/@attr - attribute value
//   - /path/to/element[1] - indexed access (1-based)
func ExtractXPath(doc *etree.Document, xpath string) string {
	if doc == nil || xpath == "" {
		return ""
	}

	// Attributes are resolved against their owning element
	if elemPath, attrName, ok := strings.Cut(xpath, "/@"); ok {
		elem := doc.FindElement(elemPath)
		if elem == nil {
			return ""
		}
		if attr := elem.SelectAttr(attrName); attr != nil {
			return attr.Value
		}
		return ""
	}

	if element := doc.FindElement(xpath); element != nil {
		return strings.TrimSpace(element.Text())
	}
	return ""
}

// NormalizeXPath normalizes an XPath expression.
// It handles common variations and returns a canonical form.
func NormalizeXPath(xpath string) string {
	if xpath == "" {
		return ""
	}

	// Trim whitespace
	xpath = strings.TrimSpace(xpath)

	// Ensure leading slash for absolute paths
	if !strings.HasPrefix(xpath, "/") && !strings.HasPrefix(xpath, ".") {
		xpath = "/" + xpath
	}

	// Normalize double slashes (except at start)
	if strings.HasPrefix(xpath, "//") {
		xpath = "//" + strings.ReplaceAll(xpath[2:], "//", "/")
	} else if strings.HasPrefix(xpath, "/") {
		xpath = "/" + strings.ReplaceAll(xpath[1:], "//", "/")
	}

	return xpath
}
