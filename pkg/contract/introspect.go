package contract

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/getmockd/soaptrace/pkg/logging"
)

// Serialization check errors.
var (
	ErrUnsupported     = errors.New("operation not supported by serializer")
	ErrNotSerializable = errors.New("type is not serializable")
)

// Introspector answers serialization questions about operations and the
// types they use.
type Introspector interface {
	// Supports reports whether the serializer can handle the method.
	Supports(m *Method) bool

	// IsSimpleType reports whether the type is serialized as a primitive.
	IsSimpleType(typeName string) bool

	// IsSerializable reports whether the type can be serialized as a data
	// contract.
	IsSerializable(typeName string) bool

	// SerializableMembers lists the serialized members of a data type.
	SerializableMembers(typeName string) []Param

	// ErrorTemplate formats a failed check. It receives the type name and
	// the operation name.
	ErrorTemplate() string
}

// CheckSerializable verifies that every parameter of op can be serialized.
func CheckSerializable(in Introspector, op *Operation) error {
	if !in.Supports(op.Method) {
		return fmt.Errorf("%w: %s", ErrUnsupported, op)
	}
	for _, p := range op.Method.Params {
		if in.IsSimpleType(p.Type) || in.IsSerializable(p.Type) {
			continue
		}
		return fmt.Errorf("%w: %s", ErrNotSerializable, fmt.Sprintf(in.ErrorTemplate(), p.Type, op.Name))
	}
	return nil
}

// MessageMembers lists the body members of op's request message. A
// document-style operation with a single data-type parameter is sent
// unwrapped, so its members are the data type's members.
func MessageMembers(in Introspector, op *Operation) []Param {
	params := op.Method.Params
	if IsDocumentStyle(op) && len(params) == 1 && !in.IsSimpleType(params[0].Type) {
		return in.SerializableMembers(params[0].Type)
	}

	members := make([]Param, len(params))
	for i, p := range params {
		members[i] = p
		if members[i].Name == "" {
			members[i].Name = "arg" + strconv.Itoa(i)
		}
	}
	return members
}

var simpleTypes = map[string]struct{}{
	"bool": {}, "byte": {}, "sbyte": {}, "char": {}, "short": {}, "ushort": {},
	"int": {}, "uint": {}, "long": {}, "ulong": {}, "float": {}, "double": {},
	"decimal": {}, "string": {}, "object": {}, "byte[]": {},
	"DateTime": {}, "DateTimeOffset": {}, "TimeSpan": {}, "Guid": {}, "Uri": {},
}

// clrAliases maps framework type names to the aliases in simpleTypes.
var clrAliases = map[string]string{
	"Boolean": "bool", "Byte": "byte", "SByte": "sbyte", "Char": "char",
	"Int16": "short", "UInt16": "ushort", "Int32": "int", "UInt32": "uint",
	"Int64": "long", "UInt64": "ulong", "Single": "float", "Double": "double",
	"Decimal": "decimal", "String": "string", "Object": "object", "Byte[]": "byte[]",
}

// CatalogIntrospector answers serialization questions from the data types
// declared in a catalog.
type CatalogIntrospector struct {
	catalog *Catalog
	logger  *slog.Logger
}

// NewCatalogIntrospector creates an introspector over catalog.
func NewCatalogIntrospector(catalog *Catalog, logger *slog.Logger) *CatalogIntrospector {
	if logger == nil {
		logger = logging.Nop()
	}
	return &CatalogIntrospector{catalog: catalog, logger: logger}
}

// Supports rejects methods with by-reference or pointer parameters.
func (c *CatalogIntrospector) Supports(m *Method) bool {
	for _, p := range m.Params {
		if strings.HasSuffix(p.Type, "&") || strings.HasSuffix(p.Type, "*") {
			return false
		}
	}
	return true
}

// IsSimpleType accepts aliases ("int") and framework names ("System.Int32").
func (c *CatalogIntrospector) IsSimpleType(typeName string) bool {
	name := strings.TrimPrefix(typeName, "System.")
	if alias, ok := clrAliases[name]; ok {
		name = alias
	}
	_, ok := simpleTypes[name]
	return ok
}

func (c *CatalogIntrospector) IsSerializable(typeName string) bool {
	if elem, ok := strings.CutSuffix(typeName, "[]"); ok {
		return c.IsSimpleType(elem) || c.IsSerializable(elem)
	}
	t := c.find(typeName)
	return t != nil && t.Serializable
}

func (c *CatalogIntrospector) SerializableMembers(typeName string) []Param {
	if t := c.find(typeName); t != nil && t.Serializable {
		return t.Members
	}
	return nil
}

func (c *CatalogIntrospector) ErrorTemplate() string {
	return "type %s used by operation %s is neither a simple type nor a serializable data type"
}

func (c *CatalogIntrospector) find(typeName string) *Type {
	t, ok, err := c.catalog.Type(typeName)
	if err != nil {
		c.logger.Warn("type lookup failed", "type", typeName, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return t
}
