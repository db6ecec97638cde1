// Package contract models service contracts and resolves SOAP actions to
// the operations they address.
//
// Type definitions are grouped into assemblies that a Catalog loads on
// demand from a Loader. A Resolver indexes every contract once and maps
// actions to operations:
//
//	catalog := contract.NewCatalog(loader)
//	resolver, err := contract.NewResolver(catalog)
//	if err != nil {
//	    return err
//	}
//	op, ok := resolver.Resolve("http://tempuri.org/IOrders/Submit")
//
// Operations that declare no action get one derived from the contract
// namespace, contract name and operation name (see DefaultAction).
package contract
