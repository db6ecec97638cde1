package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_LoadsOnDemand(t *testing.T) {
	loader := newStaticLoader(
		asm("Shop.Contracts", iface("Shop.IOrders", &ContractAttr{}, op("Submit"))),
		asm("Shop.Service", &Type{FullName: "Shop.OrderService", Kind: KindClass}),
		asm("Shop.Admin", &Type{FullName: "Shop.AdminService", Kind: KindClass}),
	)
	c := NewCatalog(loader)

	var events []string
	c.OnAssemblyLoaded(func(ref AssemblyRef) { events = append(events, ref.Name) })
	assert.Empty(t, loader.loads)

	svc, ok, err := c.Type("Shop.OrderService")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "OrderService", svc.Name())
	assert.Equal(t, AssemblyRef{Name: "Shop.Service", Version: "1.0.0.0"}, svc.Assembly)
	assert.Equal(t, []string{"Shop.Contracts", "Shop.Service"}, events)
	assert.Zero(t, loader.loads["Shop.Admin"])

	_, ok, err = c.Type("Shop.OrderService")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, events, 2)

	_, ok, err = c.Type("Shop.Missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"Shop.Contracts", "Shop.Service", "Shop.Admin"}, events)
}

func TestCatalog_NotifiesOncePerAssembly(t *testing.T) {
	shared := asm("Shop.Contracts", iface("Shop.IOrders", &ContractAttr{}, op("Submit")))
	loader := newStaticLoader(shared, asm("Shop.Service"), shared)
	c := NewCatalog(loader)

	count := map[AssemblyRef]int{}
	c.OnAssemblyLoaded(func(ref AssemblyRef) { count[ref]++ })

	assert.Len(t, c.Assemblies(), 2)
	_, err := c.LoadAll()
	require.NoError(t, err)
	_, err = c.LoadAll()
	require.NoError(t, err)
	_, err = c.Load(shared.Ref())
	require.NoError(t, err)

	assert.Len(t, count, 2)
	assert.Equal(t, 1, count[shared.Ref()])
	assert.Equal(t, 1, count[AssemblyRef{Name: "Shop.Service", Version: "1.0.0.0"}])
	assert.Equal(t, 1, loader.loads["Shop.Contracts"])
}

func TestCatalog_LinksOwners(t *testing.T) {
	submit := op("Submit")
	orders := iface("Shop.IOrders", &ContractAttr{}, submit)
	c := NewCatalog(newStaticLoader(asm("Shop", orders)))

	contracts, err := c.Contracts()
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Same(t, orders, submit.Owner)
	assert.Equal(t, "Shop.IOrders.Submit()", submit.String())
}

func TestCatalog_LoadError(t *testing.T) {
	loader := newStaticLoader(asm("Broken"))
	loader.fail = map[string]error{"Broken": assert.AnError}
	c := NewCatalog(loader)

	var events int
	c.OnAssemblyLoaded(func(AssemblyRef) { events++ })

	_, _, err := c.Type("Any.Type")
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "Broken, Version=1.0.0.0")
	assert.Zero(t, events)
}

func TestCatalog_Operations(t *testing.T) {
	baseSubmit := op("Submit", "Shop.Order")
	basePing := op("Ping")
	base := iface("Shop.IOrderReader", &ContractAttr{Namespace: strPtr("urn:base")}, baseSubmit, basePing)

	derivedSubmit := op("Submit", "Shop.Order")
	derivedSubmit.Override = true
	cancel := op("Cancel", "int")
	derived := iface("Shop.IOrders", &ContractAttr{Namespace: strPtr("urn:shop")}, derivedSubmit, cancel)
	derived.Interfaces = []string{"Shop.IOrderReader", "Shop.IUnknown"}

	c := NewCatalog(newStaticLoader(asm("Shop", base, derived)))

	ops, err := c.Operations(derived)
	require.NoError(t, err)
	require.Len(t, ops, 3)

	assert.Same(t, derivedSubmit, ops[0].Method)
	assert.Equal(t, "urn:shop/IOrders/Submit", ops[0].Action)
	assert.Same(t, cancel, ops[1].Method)
	assert.Same(t, basePing, ops[2].Method)
	assert.Equal(t, "urn:base/IOrderReader/Ping", ops[2].Action)
	assert.True(t, ops[2].Inherited())
	assert.Same(t, derived, ops[2].Contract)

	_, err = c.Operations(&Type{FullName: "Shop.Order", Kind: KindClass})
	assert.ErrorIs(t, err, ErrNotContract)
}

func TestType_Names(t *testing.T) {
	nested := &Type{FullName: "Shop.Services+Inner"}
	assert.Equal(t, "Inner", nested.Name())

	named := &Type{FullName: "Shop.IOrders", Contract: &ContractAttr{Name: strPtr("Orders")}}
	assert.Equal(t, "Orders", named.DisplayName())
	ns, declared := named.Namespace()
	assert.False(t, declared)
	assert.Empty(t, ns)

	blank := &Type{FullName: "IOrders", Contract: &ContractAttr{Name: strPtr(""), Namespace: strPtr("")}}
	assert.Equal(t, "IOrders", blank.DisplayName())
	_, declared = blank.Namespace()
	assert.True(t, declared)
}
