package contract

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getmockd/soaptrace/pkg/logging"
)

// Loader provides assembly definitions to a Catalog.
type Loader interface {
	// Assemblies lists the known assemblies in search order.
	Assemblies() []AssemblyRef

	// Load reads one assembly definition.
	Load(ref AssemblyRef) (*Assembly, error)
}

// Catalog is a lazily populated registry of types. Assemblies are loaded
// the first time a lookup consults them, and every listener registered
// with OnAssemblyLoaded is told about each distinct assembly once.
type Catalog struct {
	loader Loader
	logger *slog.Logger

	mu        sync.Mutex
	loaded    map[AssemblyRef]*Assembly
	types     map[string]*Type
	listeners []func(AssemblyRef)
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithCatalogLogger sets the logger for load diagnostics.
func WithCatalogLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCatalog creates a catalog over loader. Nothing is loaded until a
// lookup needs it.
func NewCatalog(loader Loader, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		loader: loader,
		logger: logging.Nop(),
		loaded: make(map[AssemblyRef]*Assembly),
		types:  make(map[string]*Type),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnAssemblyLoaded registers fn to be called once for every assembly the
// catalog loads from now on.
func (c *Catalog) OnAssemblyLoaded(fn func(AssemblyRef)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Assemblies returns the assembly identities in search order, without
// duplicates.
func (c *Catalog) Assemblies() []AssemblyRef {
	seen := make(map[AssemblyRef]struct{})
	var refs []AssemblyRef
	for _, ref := range c.loader.Assemblies() {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

// Load returns the assembly, loading it on first use.
func (c *Catalog) Load(ref AssemblyRef) (*Assembly, error) {
	c.mu.Lock()
	asm, fresh, err := c.loadLocked(ref)
	listeners := c.listeners
	c.mu.Unlock()

	if fresh {
		notify(listeners, ref)
	}
	return asm, err
}

// LoadAll loads every assembly in search order.
func (c *Catalog) LoadAll() ([]*Assembly, error) {
	refs := c.Assemblies()
	assemblies := make([]*Assembly, 0, len(refs))
	for _, ref := range refs {
		asm, err := c.Load(ref)
		if err != nil {
			return nil, err
		}
		assemblies = append(assemblies, asm)
	}
	return assemblies, nil
}

// Type finds a type by full name. Loaded assemblies are searched first,
// then the remaining ones are loaded in search order until it is found.
func (c *Catalog) Type(fullName string) (*Type, bool, error) {
	c.mu.Lock()
	if t, ok := c.types[fullName]; ok {
		c.mu.Unlock()
		return t, true, nil
	}

	var fresh []AssemblyRef
	var found *Type
	var err error
	for _, ref := range c.Assemblies() {
		if _, done := c.loaded[ref]; done {
			continue
		}
		var isNew bool
		if _, isNew, err = c.loadLocked(ref); err != nil {
			break
		}
		if isNew {
			fresh = append(fresh, ref)
		}
		if t, ok := c.types[fullName]; ok {
			found = t
			break
		}
	}
	listeners := c.listeners
	c.mu.Unlock()

	for _, ref := range fresh {
		notify(listeners, ref)
	}
	if err != nil {
		return nil, false, err
	}
	return found, found != nil, nil
}

// Contracts loads every assembly and returns its contract types in search
// order.
func (c *Catalog) Contracts() ([]*Type, error) {
	assemblies, err := c.LoadAll()
	if err != nil {
		return nil, err
	}
	var contracts []*Type
	for _, asm := range assemblies {
		for _, t := range asm.Types {
			if t.IsContract() {
				contracts = append(contracts, t)
			}
		}
	}
	return contracts, nil
}

func (c *Catalog) loadLocked(ref AssemblyRef) (*Assembly, bool, error) {
	if asm, ok := c.loaded[ref]; ok {
		return asm, false, nil
	}

	asm, err := c.loader.Load(ref)
	if err != nil {
		return nil, false, fmt.Errorf("loading assembly %s: %w", ref, err)
	}
	if asm == nil {
		asm = &Assembly{Name: ref.Name, Version: ref.Version}
	}

	for _, t := range asm.Types {
		t.Assembly = ref
		for _, m := range t.Methods {
			m.Owner = t
		}
		if prev, dup := c.types[t.FullName]; dup {
			c.logger.Debug("type already defined", "type", t.FullName, "assembly", ref.String(), "kept", prev.Assembly.String())
			continue
		}
		c.types[t.FullName] = t
	}
	c.loaded[ref] = asm
	c.logger.Debug("assembly loaded", "assembly", ref.String(), "types", len(asm.Types))
	return asm, true, nil
}

func notify(listeners []func(AssemblyRef), ref AssemblyRef) {
	for _, fn := range listeners {
		fn(ref)
	}
}
