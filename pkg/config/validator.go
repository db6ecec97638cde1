package config

import (
	"fmt"
	"strings"

	"github.com/getmockd/soaptrace/pkg/contract"
)

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a definition.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// validKinds are the allowed type kinds.
var validKinds = map[contract.Kind]bool{
	contract.KindInterface: true,
	contract.KindClass:     true,
}

// validStyles are the allowed format styles.
var validStyles = map[contract.Style]bool{
	contract.StyleDocument: true,
	contract.StyleRPC:      true,
}

// ValidateManifest checks assembly names, duplicate identities and inline
// definitions.
func ValidateManifest(m *Manifest) error {
	var errs ValidationErrors
	seen := make(map[contract.AssemblyRef]bool)

	for i, e := range m.Assemblies {
		field := fmt.Sprintf("assemblies[%d]", i)
		if e.Name == "" {
			errs = append(errs, &ValidationError{Field: field + ".name", Message: "assembly name is required"})
			continue
		}
		if seen[e.Ref()] {
			errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf("duplicate assembly %s", e.Ref())})
		}
		seen[e.Ref()] = true

		if e.Inline() {
			if e.File != "" {
				errs = append(errs, &ValidationError{Field: field + ".file", Message: "inline assemblies cannot also name a file"})
			}
			errs = append(errs, validateTypes(field, e.Types)...)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateAssembly reports duplicate types, empty names, unknown kinds and
// unknown format styles.
func ValidateAssembly(a *contract.Assembly) error {
	var errs ValidationErrors
	if a.Name == "" {
		errs = append(errs, &ValidationError{Field: "name", Message: "assembly name is required"})
	}
	errs = append(errs, validateTypes("", a.Types)...)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateTypes(prefix string, types []*contract.Type) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool)

	for i, t := range types {
		field := fmt.Sprintf("%stypes[%d]", dotted(prefix), i)
		if t == nil {
			errs = append(errs, &ValidationError{Field: field, Message: "type definition is empty"})
			continue
		}
		if t.FullName == "" {
			errs = append(errs, &ValidationError{Field: field + ".fullName", Message: "type name is required"})
		} else if seen[t.FullName] {
			errs = append(errs, &ValidationError{Field: field + ".fullName", Message: fmt.Sprintf("duplicate type %s", t.FullName)})
		}
		seen[t.FullName] = true

		if !validKinds[t.Kind] {
			errs = append(errs, &ValidationError{Field: field + ".kind", Message: fmt.Sprintf("invalid kind %q (must be interface or class)", t.Kind)})
		}
		if t.Contract != nil {
			errs = append(errs, validateFormat(field+".contract.format", t.Contract.Format)...)
		}
		errs = append(errs, validateMethods(field, t)...)
	}
	return errs
}

func validateMethods(prefix string, t *contract.Type) ValidationErrors {
	var errs ValidationErrors
	signatures := make(map[string]bool)
	unnamedOverloads := make(map[string]int)

	for i, m := range t.Methods {
		field := fmt.Sprintf("%s.methods[%d]", prefix, i)
		if m == nil || m.Name == "" {
			errs = append(errs, &ValidationError{Field: field + ".name", Message: "method name is required"})
			continue
		}
		if sig := m.Signature(); signatures[sig] {
			errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf("duplicate method %s", sig)})
		} else {
			signatures[sig] = true
		}
		errs = append(errs, validateFormat(field+".format", m.Format)...)

		if !m.IsOperation() {
			continue
		}
		if !t.IsContract() {
			errs = append(errs, &ValidationError{Field: field + ".operation", Message: "operation declared on a type without a contract attribute"})
		}
		if m.Operation.Name == "" && m.Operation.Action == "" {
			unnamedOverloads[m.Name]++
			if unnamedOverloads[m.Name] == 2 {
				errs = append(errs, &ValidationError{Field: field + ".operation.name", Message: fmt.Sprintf("overloads of %s need a name override", m.Name)})
			}
		}
	}
	return errs
}

func validateFormat(field string, f *contract.FormatAttr) ValidationErrors {
	if f == nil || validStyles[f.Style] {
		return nil
	}
	return ValidationErrors{{Field: field + ".style", Message: fmt.Sprintf("invalid style %q (must be document or rpc)", f.Style)}}
}

func dotted(prefix string) string {
	if prefix == "" {
		return ""
	}
	return prefix + "."
}
