// Package proxy finds the methods that actually carry out contract
// operations.
package proxy

import (
	"log/slog"
	"sync"

	"github.com/getmockd/soaptrace/pkg/contract"
	"github.com/getmockd/soaptrace/pkg/logging"
)

// Resolver maps contract operations to the class methods that implement
// them. Results are cached per contract and method, so a repeated lookup
// neither rescans nor loads assemblies.
type Resolver struct {
	catalog      *contract.Catalog
	introspector contract.Introspector
	logger       *slog.Logger

	mu    sync.Mutex
	cache map[cacheKey]*contract.Method
}

type cacheKey struct {
	contract *contract.Type
	method   *contract.Method
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIntrospector skips candidate methods the introspector does not
// support.
func WithIntrospector(in contract.Introspector) Option {
	return func(r *Resolver) {
		r.introspector = in
	}
}

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver that searches the assemblies of catalog.
func NewResolver(catalog *contract.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog: catalog,
		logger:  logging.Nop(),
		cache:   make(map[cacheKey]*contract.Method),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the method invoked to perform op. A class contract is its
// own proxy, so its operation's method is returned as is. Otherwise the
// catalog's classes are scanned in assembly order for an implementation of
// the contract with the same parameter signature. Not found is reported
// as false with a nil error.
func (r *Resolver) Resolve(op *contract.Operation) (*contract.Method, bool, error) {
	if op.Contract.Kind == contract.KindClass {
		return op.Method, true, nil
	}

	key := cacheKey{contract: op.Contract, method: op.Method}

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.cache[key]; ok {
		return m, m != nil, nil
	}

	m, err := r.scan(op)
	if err != nil {
		return nil, false, err
	}
	r.cache[key] = m
	if m == nil {
		r.logger.Debug("no implementation found", "operation", op.String())
		return nil, false, nil
	}
	r.logger.Debug("operation resolved", "operation", op.String(), "method", m.String())
	return m, true, nil
}

func (r *Resolver) scan(op *contract.Operation) (*contract.Method, error) {
	for _, ref := range r.catalog.Assemblies() {
		asm, err := r.catalog.Load(ref)
		if err != nil {
			return nil, err
		}
		for _, t := range asm.Types {
			if t.Kind != contract.KindClass {
				continue
			}
			ok, err := r.implements(t, op.Contract)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			m, err := r.findMethod(t, op)
			if err != nil {
				return nil, err
			}
			if m != nil {
				return m, nil
			}
		}
	}
	return nil, nil
}

// implements reports whether class t, or one of its base classes,
// implements iface directly or through a derived interface.
func (r *Resolver) implements(t, iface *contract.Type) (bool, error) {
	seen := make(map[string]struct{})
	pending := []string{t.FullName}

	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]
		if name == iface.FullName {
			return true, nil
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		cur := t
		if name != t.FullName {
			found, ok, err := r.catalog.Type(name)
			if err != nil {
				return false, err
			}
			if !ok {
				continue
			}
			cur = found
		}
		if cur.Base != "" {
			pending = append(pending, cur.Base)
		}
		pending = append(pending, cur.Interfaces...)
	}
	return false, nil
}

// findMethod searches t and then its base classes for a method matching
// op. On each type an explicit implementation beats a simple-name match.
func (r *Resolver) findMethod(t *contract.Type, op *contract.Operation) (*contract.Method, error) {
	explicitNames := []string{
		op.Declaring.FullName + "." + op.Method.Name,
		op.Declaring.Name() + "." + op.Method.Name,
	}

	seen := make(map[*contract.Type]struct{})
	for cur := t; cur != nil; {
		if _, loop := seen[cur]; loop {
			break
		}
		seen[cur] = struct{}{}

		var simple *contract.Method
		for _, m := range cur.Methods {
			if !m.SameParams(op.Method) || !r.supported(m) {
				continue
			}
			for _, name := range explicitNames {
				if m.Name == name {
					return m, nil
				}
			}
			if simple == nil && m.Name == op.Method.Name {
				simple = m
			}
		}
		if simple != nil {
			return simple, nil
		}

		if cur.Base == "" {
			break
		}
		base, ok, err := r.catalog.Type(cur.Base)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		cur = base
	}
	return nil, nil
}

func (r *Resolver) supported(m *contract.Method) bool {
	return r.introspector == nil || r.introspector.Supports(m)
}
