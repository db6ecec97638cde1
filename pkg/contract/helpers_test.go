package contract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// staticLoader serves in-memory assemblies and counts loads.
type staticLoader struct {
	assemblies []*Assembly
	loads      map[string]int
	fail       map[string]error
}

func newStaticLoader(assemblies ...*Assembly) *staticLoader {
	return &staticLoader{assemblies: assemblies, loads: make(map[string]int)}
}

func (l *staticLoader) Assemblies() []AssemblyRef {
	refs := make([]AssemblyRef, 0, len(l.assemblies))
	for _, a := range l.assemblies {
		refs = append(refs, a.Ref())
	}
	return refs
}

func (l *staticLoader) Load(ref AssemblyRef) (*Assembly, error) {
	l.loads[ref.Name]++
	if err := l.fail[ref.Name]; err != nil {
		return nil, err
	}
	for _, a := range l.assemblies {
		if a.Ref() == ref {
			return a, nil
		}
	}
	return nil, fmt.Errorf("unknown assembly %s", ref)
}

func strPtr(s string) *string { return &s }

func asm(name string, types ...*Type) *Assembly {
	return &Assembly{Name: name, Version: "1.0.0.0", Types: types}
}

func iface(fullName string, attr *ContractAttr, methods ...*Method) *Type {
	return &Type{FullName: fullName, Kind: KindInterface, Contract: attr, Methods: methods}
}

func op(name string, params ...string) *Method {
	m := &Method{Name: name, Operation: &OperationAttr{}}
	for _, p := range params {
		m.Params = append(m.Params, Param{Type: p})
	}
	return m
}

func mustResolver(t *testing.T, loader Loader) *Resolver {
	t.Helper()
	r, err := NewResolver(NewCatalog(loader))
	require.NoError(t, err)
	return r
}
