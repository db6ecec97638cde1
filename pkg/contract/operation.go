package contract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotContract is returned when operations are requested for a type that
// carries no contract attribute.
var ErrNotContract = errors.New("type is not a contract")

// Operation is a contract operation as seen through one contract type.
type Operation struct {
	// Name is the operation name: the attribute's name override, else the
	// method name.
	Name string

	// Action is the explicit action, or the derived default.
	Action string

	// Explicit reports whether Action was declared rather than derived.
	Explicit bool

	// Contract is the contract type the operation was enumerated through.
	Contract *Type

	// Declaring is the contract type that declares Method.
	Declaring *Type

	// Method backs the operation.
	Method *Method

	depth int
}

// ContractName is the display name of the declaring contract.
func (o *Operation) ContractName() string { return o.Declaring.DisplayName() }

// ParamTypes returns the positional parameter type signature.
func (o *Operation) ParamTypes() []string { return o.Method.ParamTypes() }

// Inherited reports whether the operation comes from a base contract.
func (o *Operation) Inherited() bool { return o.Declaring != o.Contract }

func (o *Operation) String() string {
	return o.Contract.DisplayName() + "." + o.Name
}

// DefaultAction derives the action of an operation that declares none.
// A nil namespace means none was declared and DefaultNamespace applies.
func DefaultAction(namespace *string, contractName, operation string) string {
	ns := DefaultNamespace
	if namespace != nil {
		ns = *namespace
	}

	switch {
	case ns == "":
		return "urn:" + contractName + "/" + operation
	case strings.HasSuffix(ns, "/"):
		return ns + contractName + "/" + operation
	default:
		return ns + "/" + contractName + "/" + operation
	}
}

func newOperation(contract, declaring *Type, m *Method, depth int) *Operation {
	op := &Operation{
		Name:      m.Name,
		Contract:  contract,
		Declaring: declaring,
		Method:    m,
		depth:     depth,
	}
	if m.Operation.Name != "" {
		op.Name = m.Operation.Name
	}
	if m.Operation.Action != "" {
		op.Action = m.Operation.Action
		op.Explicit = true
	} else {
		op.Action = DefaultAction(declaring.Contract.Namespace, declaring.DisplayName(), op.Name)
	}
	return op
}

// Operations enumerates the operations of a contract type, including those
// inherited from base contracts. A base method is hidden by an override
// with the same signature declared closer to t. A same-signature method not
// marked as an override is a separate declaration and the base method stays
// visible next to it.
func (c *Catalog) Operations(t *Type) ([]*Operation, error) {
	if !t.IsContract() {
		return nil, fmt.Errorf("%w: %s", ErrNotContract, t.FullName)
	}

	type link struct {
		t     *Type
		depth int
	}

	var ops []*Operation
	hidden := make(map[string]struct{})
	visited := make(map[*Type]struct{})
	queue := []link{{t: t}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, ok := visited[cur.t]; ok {
			continue
		}
		visited[cur.t] = struct{}{}

		for _, m := range cur.t.Methods {
			if !m.IsOperation() {
				continue
			}
			sig := m.Signature()
			if _, ok := hidden[sig]; ok {
				continue
			}
			if m.Override {
				hidden[sig] = struct{}{}
			}
			ops = append(ops, newOperation(t, cur.t, m, cur.depth))
		}

		bases, err := c.contractBases(cur.t)
		if err != nil {
			return nil, err
		}
		for _, b := range bases {
			queue = append(queue, link{t: b, depth: cur.depth + 1})
		}
	}
	return ops, nil
}

// contractBases resolves the base class and interfaces of t that are
// contracts. Unknown base names are ignored.
func (c *Catalog) contractBases(t *Type) ([]*Type, error) {
	var bases []*Type
	for _, name := range t.bases() {
		b, ok, err := c.Type(name)
		if err != nil {
			return nil, err
		}
		if ok && b.IsContract() {
			bases = append(bases, b)
		}
	}
	return bases, nil
}
