package cli

import (
	"log/slog"
	"sync"

	"github.com/getmockd/soaptrace/pkg/config"
	"github.com/getmockd/soaptrace/pkg/contract"
	"github.com/getmockd/soaptrace/pkg/proxy"
)

// resolution bundles the resolvers opened over one catalog manifest.
type resolution struct {
	catalog      *contract.Catalog
	actions      *contract.Resolver
	proxies      *proxy.Resolver
	introspector *contract.CatalogIntrospector

	mu     sync.Mutex
	loaded []contract.AssemblyRef
}

// openResolution loads the manifest at path and indexes every contract.
func openResolution(path string, logger *slog.Logger) (*resolution, error) {
	if path == "" {
		return nil, ErrNoCatalog
	}
	loader, err := config.OpenCatalog(path, config.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	r := &resolution{catalog: contract.NewCatalog(loader, contract.WithCatalogLogger(logger))}
	r.catalog.OnAssemblyLoaded(func(ref contract.AssemblyRef) {
		r.mu.Lock()
		r.loaded = append(r.loaded, ref)
		r.mu.Unlock()
		logger.Debug("assembly loaded", "assembly", ref.String())
	})

	r.actions, err = contract.NewResolver(r.catalog, contract.WithResolverLogger(logger))
	if err != nil {
		return nil, err
	}
	r.introspector = contract.NewCatalogIntrospector(r.catalog, logger)
	r.proxies = proxy.NewResolver(r.catalog,
		proxy.WithIntrospector(r.introspector),
		proxy.WithLogger(logger),
	)
	return r, nil
}

// Resolution is the JSON form of one resolved action.
type Resolution struct {
	Action    string           `json:"action"`
	Found     bool             `json:"found"`
	Operation string           `json:"operation,omitempty"`
	Contract  string           `json:"contract,omitempty"`
	Declaring string           `json:"declaring,omitempty"`
	Explicit  bool             `json:"explicit,omitempty"`
	Style     contract.Style   `json:"style,omitempty"`
	Members   []contract.Param `json:"members,omitempty"`
	Proxy     string           `json:"proxy,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// resolve maps action to its operation and proxy method. Proxy lookup
// failures are reported in the result rather than aborting.
func (r *resolution) resolve(action string) Resolution {
	res := Resolution{Action: action}
	op, ok := r.actions.Resolve(action)
	if !ok {
		return res
	}

	res.Found = true
	res.Operation = op.Name
	res.Contract = op.Contract.FullName
	res.Declaring = op.Declaring.FullName
	res.Explicit = op.Explicit
	res.Style = contract.StyleRPC
	if contract.IsDocumentStyle(op) {
		res.Style = contract.StyleDocument
	}
	res.Members = contract.MessageMembers(r.introspector, op)

	m, found, err := r.proxies.Resolve(op)
	switch {
	case err != nil:
		res.Error = err.Error()
	case found:
		res.Proxy = m.String()
	}
	return res
}

// assemblies returns the assemblies loaded so far, in load order.
func (r *resolution) assemblies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.loaded))
	for i, ref := range r.loaded {
		names[i] = ref.String()
	}
	return names
}
