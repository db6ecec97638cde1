package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/soaptrace/pkg/contract"
)

const contractsYAML = `name: Shop.Contracts
version: 1.0.0.0
types:
  - fullName: Shop.Contracts.IOrders
    kind: interface
    contract:
      namespace: http://shop.example/
      format:
        style: document
    methods:
      - name: Submit
        params:
          - name: order
            type: Shop.Contracts.Order
        operation: {}
      - name: Submit
        params:
          - type: Shop.Contracts.Order
          - type: bool
        operation:
          name: SubmitAndWait
  - fullName: Shop.Contracts.Order
    kind: class
    serializable: true
    members:
      - name: Id
        type: int
`

const serviceJSON = `{
  "name": "Shop.Service",
  "types": [
    {
      "fullName": "Shop.Service.OrderService",
      "kind": "class",
      "interfaces": ["Shop.Contracts.IOrders"],
      "methods": [
        {"name": "Submit", "params": [{"type": "Shop.Contracts.Order"}]},
        {"name": "Shop.Contracts.IOrders.Submit", "params": [{"type": "Shop.Contracts.Order"}, {"type": "bool"}]}
      ]
    }
  ]
}`

func shopCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "assemblies/contracts/Shop.Contracts.yaml", contractsYAML)
	writeFile(t, dir, "assemblies/service/impl.json", serviceJSON)
	return writeFile(t, dir, "catalog.yaml", manifestYAML)
}

func TestAssemblyDir_LoadsDefinitions(t *testing.T) {
	path := shopCatalog(t)
	d, err := OpenCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "assemblies"), d.Root)

	refs := d.Assemblies()
	require.Len(t, refs, 3)

	asm, err := d.Load(refs[0])
	require.NoError(t, err)
	assert.Equal(t, "Shop.Contracts", asm.Name)
	require.Len(t, asm.Types, 2)
	orders := asm.Types[0]
	ns, declared := orders.Namespace()
	assert.True(t, declared)
	assert.Equal(t, "http://shop.example/", ns)
	assert.Equal(t, contract.StyleDocument, orders.Contract.Format.Style)
	assert.Equal(t, "SubmitAndWait", orders.Methods[1].Operation.Name)

	asm, err = d.Load(refs[1])
	require.NoError(t, err)
	assert.Equal(t, "Shop.Service", asm.Name)
	assert.Empty(t, asm.Version)

	asm, err = d.Load(refs[2])
	require.NoError(t, err)
	assert.Equal(t, "Shop.IPing", asm.Types[0].FullName)

	_, err = d.Load(contract.AssemblyRef{Name: "Shop.Unknown"})
	assert.ErrorIs(t, err, ErrUnknownAssembly)
}

func TestAssemblyDir_SearchPrefersShallowMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deep/nested/Shop.Contracts.yml", "name: Shop.Contracts\ntypes: []\n")
	writeFile(t, dir, "top/Shop.Contracts.json", `{"name": "Shop.Contracts", "types": [{"fullName": "Shop.A", "kind": "class"}]}`)
	writeFile(t, dir, "top/ShopXContracts.json", `{"name": "ShopXContracts", "types": []}`)

	d := NewAssemblyDir(dir, &Manifest{Assemblies: []AssemblyEntry{{Name: "Shop.Contracts"}}})
	asm, err := d.Load(contract.AssemblyRef{Name: "Shop.Contracts"})
	require.NoError(t, err)
	require.Len(t, asm.Types, 1)
	assert.Equal(t, "Shop.A", asm.Types[0].FullName)
}

func TestAssemblyDir_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Wrong.yaml", "name: Other\ntypes: []\n")
	writeFile(t, dir, "Versioned.yaml", "name: Versioned\nversion: 2.0.0.0\ntypes: []\n")
	writeFile(t, dir, "Invalid.yaml", "name: Invalid\ntypes:\n  - fullName: Shop.X\n    kind: struct\n")

	d := NewAssemblyDir(dir, &Manifest{Assemblies: []AssemblyEntry{
		{Name: "Missing"},
		{Name: "Wrong"},
		{Name: "Versioned", Version: "1.0.0.0"},
		{Name: "Invalid"},
	}})

	_, err := d.Load(contract.AssemblyRef{Name: "Missing"})
	assert.ErrorIs(t, err, ErrAssemblyNotFound)

	_, err = d.Load(contract.AssemblyRef{Name: "Wrong"})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Message, `defines assembly "Other"`)

	_, err = d.Load(contract.AssemblyRef{Name: "Versioned", Version: "1.0.0.0"})
	assert.ErrorContains(t, err, `defines version "2.0.0.0"`)

	_, err = d.Load(contract.AssemblyRef{Name: "Invalid"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, err.Error(), `invalid kind "struct"`)
}

func TestAssemblyDir_WithCatalog(t *testing.T) {
	d, err := OpenCatalog(shopCatalog(t))
	require.NoError(t, err)

	catalog := contract.NewCatalog(d)
	var loaded []string
	catalog.OnAssemblyLoaded(func(ref contract.AssemblyRef) { loaded = append(loaded, ref.Name) })

	resolver, err := contract.NewResolver(catalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shop.Contracts", "Shop.Service", "Shop.Inline"}, loaded)

	op, ok := resolver.Resolve("http://shop.example/IOrders/SubmitAndWait")
	require.True(t, ok)
	assert.Equal(t, []string{"Shop.Contracts.Order", "bool"}, op.ParamTypes())
	assert.True(t, contract.IsDocumentStyle(op))

	op, ok = resolver.Resolve("urn:IPing/Ping")
	require.True(t, ok)
	assert.Equal(t, "Ping", op.Name)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `Shop.Contracts`, escapeGlob("Shop.Contracts"))
	assert.Equal(t, `Shop\[v2\]\*`, escapeGlob("Shop[v2]*"))

	dir := t.TempDir()
	writeFile(t, dir, "Shop[v2].yaml", "name: \"Shop[v2]\"\ntypes: []\n")
	d := NewAssemblyDir(dir, &Manifest{Assemblies: []AssemblyEntry{{Name: "Shop[v2]"}}})
	asm, err := d.Load(contract.AssemblyRef{Name: "Shop[v2]"})
	require.NoError(t, err)
	assert.Equal(t, "Shop[v2]", asm.Name)
}
