package contract

import (
	"fmt"
	"strings"
)

// DefaultNamespace is used for contracts that declare no namespace.
const DefaultNamespace = "http://tempuri.org"

// Kind distinguishes interface contracts from classes.
type Kind string

// Type kinds.
const (
	KindInterface Kind = "interface"
	KindClass     Kind = "class"
)

// Style is the message format style of an operation.
type Style string

// Format styles.
const (
	StyleDocument Style = "document"
	StyleRPC      Style = "rpc"
)

// FormatAttr declares the message format style of a contract or one of its
// operations.
type FormatAttr struct {
	Style Style `yaml:"style" json:"style"`
}

// ContractAttr marks a type as a service contract.
type ContractAttr struct {
	// Name overrides the display name used in derived actions.
	Name *string `yaml:"name,omitempty" json:"name,omitempty"`

	// Namespace overrides DefaultNamespace. An empty namespace is distinct
	// from an absent one.
	Namespace *string `yaml:"namespace,omitempty" json:"namespace,omitempty"`

	// Format applies to every operation that does not declare its own.
	Format *FormatAttr `yaml:"format,omitempty" json:"format,omitempty"`
}

// OperationAttr marks a method as a contract operation.
type OperationAttr struct {
	// Name overrides the operation name, typically to tell overloads apart.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Action is the explicit action. Empty means derived.
	Action string `yaml:"action,omitempty" json:"action,omitempty"`
}

// AssemblyRef identifies an assembly.
type AssemblyRef struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

func (r AssemblyRef) String() string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + ", Version=" + r.Version
}

// Assembly is a unit of type definitions loaded on demand.
type Assembly struct {
	Name    string  `yaml:"name" json:"name"`
	Version string  `yaml:"version,omitempty" json:"version,omitempty"`
	Types   []*Type `yaml:"types" json:"types"`
}

// Ref returns the assembly identity.
func (a *Assembly) Ref() AssemblyRef {
	return AssemblyRef{Name: a.Name, Version: a.Version}
}

// Param is a method parameter or a serializable data member.
type Param struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Type string `yaml:"type" json:"type"`
}

// Type is an interface or class definition.
type Type struct {
	FullName   string        `yaml:"fullName" json:"fullName"`
	Kind       Kind          `yaml:"kind" json:"kind"`
	Base       string        `yaml:"base,omitempty" json:"base,omitempty"`
	Interfaces []string      `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	Contract   *ContractAttr `yaml:"contract,omitempty" json:"contract,omitempty"`
	Methods    []*Method     `yaml:"methods,omitempty" json:"methods,omitempty"`

	// Serializable and Members describe data types used as parameters.
	Serializable bool    `yaml:"serializable,omitempty" json:"serializable,omitempty"`
	Members      []Param `yaml:"members,omitempty" json:"members,omitempty"`

	// Assembly is set when the type is loaded through a Catalog.
	Assembly AssemblyRef `yaml:"-" json:"-"`
}

// Name returns the bare type name.
func (t *Type) Name() string {
	name := t.FullName
	if i := strings.LastIndexAny(name, ".+"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// IsContract reports whether the type carries a contract attribute.
func (t *Type) IsContract() bool { return t.Contract != nil }

// DisplayName is the contract's declared name, else the bare type name.
func (t *Type) DisplayName() string {
	if t.Contract != nil && t.Contract.Name != nil && *t.Contract.Name != "" {
		return *t.Contract.Name
	}
	return t.Name()
}

// Namespace returns the declared namespace and whether one was declared.
func (t *Type) Namespace() (string, bool) {
	if t.Contract == nil || t.Contract.Namespace == nil {
		return "", false
	}
	return *t.Contract.Namespace, true
}

// bases lists the base class followed by the directly implemented or
// extended interfaces.
func (t *Type) bases() []string {
	names := make([]string, 0, len(t.Interfaces)+1)
	if t.Base != "" {
		names = append(names, t.Base)
	}
	return append(names, t.Interfaces...)
}

// Method is a method declared by a type.
type Method struct {
	Name      string         `yaml:"name" json:"name"`
	Params    []Param        `yaml:"params,omitempty" json:"params,omitempty"`
	Operation *OperationAttr `yaml:"operation,omitempty" json:"operation,omitempty"`
	Format    *FormatAttr    `yaml:"format,omitempty" json:"format,omitempty"`

	// Override marks a method that replaces the base contract method with
	// the same signature. Without it the base method stays an operation.
	Override bool `yaml:"override,omitempty" json:"override,omitempty"`

	// Owner is the declaring type, set when loaded through a Catalog.
	Owner *Type `yaml:"-" json:"-"`
}

// IsOperation reports whether the method is a contract operation.
func (m *Method) IsOperation() bool { return m.Operation != nil }

// ParamTypes returns the positional parameter type signature.
func (m *Method) ParamTypes() []string {
	types := make([]string, len(m.Params))
	for i, p := range m.Params {
		types[i] = p.Type
	}
	return types
}

// Signature formats the method as Name(T1,T2).
func (m *Method) Signature() string {
	return fmt.Sprintf("%s(%s)", m.Name, strings.Join(m.ParamTypes(), ","))
}

// SameParams reports whether both methods take the same parameter types.
func (m *Method) SameParams(other *Method) bool {
	if len(m.Params) != len(other.Params) {
		return false
	}
	for i := range m.Params {
		if m.Params[i].Type != other.Params[i].Type {
			return false
		}
	}
	return true
}

// String returns Owner.Signature when the owner is known.
func (m *Method) String() string {
	if m.Owner == nil {
		return m.Signature()
	}
	return m.Owner.FullName + "." + m.Signature()
}
