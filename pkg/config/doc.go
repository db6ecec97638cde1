// Package config loads catalog definitions: the manifest that lists
// assemblies in search order, and the assembly definition files it refers
// to.
//
// A manifest may define an assembly inline or leave it to a file in the
// assembly directory:
//
//	version: "1.0"
//	name: shop
//	assemblyDir: assemblies
//	assemblies:
//	  - name: Shop.Contracts
//	    version: 1.0.0.0
//	  - name: Shop.Service
//	    file: service/Shop.Service.yaml
//	  - name: Shop.Inline
//	    types:
//	      - fullName: Shop.IPing
//	        kind: interface
//	        contract: {}
//	        methods:
//	          - name: Ping
//	            operation: {}
//
// Assemblies without a file are found by searching the assembly directory
// for <name>.yaml, <name>.yml or <name>.json at any depth. Files are read
// only when a catalog lookup first needs the assembly:
//
//	dir, err := config.OpenCatalog("catalog.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	catalog := contract.NewCatalog(dir)
package config
