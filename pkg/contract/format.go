package contract

// lookup is the outcome of searching an operation's declaration chain for
// a format attribute.
type lookup int

const (
	lookupAbsent lookup = iota
	lookupDeclared
	lookupInherited
)

// formatLink is one declaration of an operation: the type that declares
// it and the method it declares.
type formatLink struct {
	owner  *Type
	method *Method
}

// declarationChain lists the declarations of op from the querying contract
// down to the declaring one. An inherited, non-overridden operation has two
// links; everything else has one.
func declarationChain(op *Operation) []formatLink {
	if !op.Inherited() {
		return []formatLink{{owner: op.Contract, method: op.Method}}
	}
	return []formatLink{
		{owner: op.Contract},
		{owner: op.Declaring, method: op.Method},
	}
}

// operationFormat resolves the format attribute that applies to op
// specifically, without the querying contract's own container attribute.
func operationFormat(op *Operation) (*FormatAttr, lookup) {
	chain := declarationChain(op)

	here := chain[0]
	if here.method != nil {
		if here.method.Format != nil {
			return here.method.Format, lookupDeclared
		}
		// An override that does not redeclare the attribute does not
		// inherit the base method's attribute.
		return nil, lookupAbsent
	}

	for _, link := range chain[1:] {
		if link.method.Format != nil {
			return link.method.Format, lookupInherited
		}
		if link.owner.Contract != nil && link.owner.Contract.Format != nil {
			return link.owner.Contract.Format, lookupInherited
		}
	}
	return nil, lookupAbsent
}

// EffectiveFormat returns the format attribute that applies to op, or nil
// when none does.
func EffectiveFormat(op *Operation) *FormatAttr {
	if f, how := operationFormat(op); how != lookupAbsent {
		return f
	}
	if op.Contract.Contract != nil {
		return op.Contract.Contract.Format
	}
	return nil
}

// IsDocumentStyle reports whether op's messages follow document-style
// rules.
func IsDocumentStyle(op *Operation) bool {
	f := EffectiveFormat(op)
	return f != nil && f.Style == StyleDocument
}
