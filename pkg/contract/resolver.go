package contract

import (
	"log/slog"
	"sync"

	"github.com/getmockd/soaptrace/pkg/logging"
)

// Resolver maps actions to contract operations. It indexes every contract
// in the catalog once and remembers each lookup, misses included.
type Resolver struct {
	catalog  *Catalog
	logger   *slog.Logger
	byAction map[string][]*Operation
	depth    map[*Type]int

	mu    sync.Mutex
	cache map[string]*Operation
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger for resolution diagnostics.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver loads every assembly in catalog and indexes the operations
// of all contracts by action.
func NewResolver(catalog *Catalog, opts ...ResolverOption) (*Resolver, error) {
	r := &Resolver{
		catalog:  catalog,
		logger:   logging.Nop(),
		byAction: make(map[string][]*Operation),
		depth:    make(map[*Type]int),
		cache:    make(map[string]*Operation),
	}
	for _, opt := range opts {
		opt(r)
	}

	contracts, err := catalog.Contracts()
	if err != nil {
		return nil, err
	}
	for _, t := range contracts {
		ops, err := catalog.Operations(t)
		if err != nil {
			return nil, err
		}
		for _, op := range ops {
			if _, err := r.inheritanceDepth(op.Declaring, nil); err != nil {
				return nil, err
			}
			r.byAction[op.Action] = append(r.byAction[op.Action], op)
		}
	}
	r.logger.Debug("contracts indexed", "contracts", len(contracts), "actions", len(r.byAction))
	return r, nil
}

// Resolve returns the operation addressed by action. Explicit actions win
// over derived ones, then the most derived declaring contract, then the
// overload declared without a name override.
func (r *Resolver) Resolve(action string) (*Operation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if op, ok := r.cache[action]; ok {
		return op, op != nil
	}

	var best *Operation
	for _, op := range r.byAction[action] {
		if best == nil || r.better(op, best) {
			best = op
		}
	}
	r.cache[action] = best
	if best == nil {
		r.logger.Debug("no operation for action", "action", action)
	}
	return best, best != nil
}

// Actions returns the number of distinct indexed actions.
func (r *Resolver) Actions() int { return len(r.byAction) }

func (r *Resolver) better(a, b *Operation) bool {
	if a.Explicit != b.Explicit {
		return a.Explicit
	}
	if da, db := r.depth[a.Declaring], r.depth[b.Declaring]; da != db {
		return da > db
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	renamedA, renamedB := a.Method.Operation.Name != "", b.Method.Operation.Name != ""
	if renamedA != renamedB {
		return !renamedA
	}
	return false
}

// inheritanceDepth is the length of the longest chain of base contracts
// above t.
func (r *Resolver) inheritanceDepth(t *Type, visiting map[*Type]bool) (int, error) {
	if d, ok := r.depth[t]; ok {
		return d, nil
	}
	if visiting == nil {
		visiting = make(map[*Type]bool)
	}
	if visiting[t] {
		return 0, nil
	}
	visiting[t] = true

	bases, err := r.catalog.contractBases(t)
	if err != nil {
		return 0, err
	}
	depth := 0
	for _, b := range bases {
		d, err := r.inheritanceDepth(b, visiting)
		if err != nil {
			return 0, err
		}
		if d+1 > depth {
			depth = d + 1
		}
	}
	r.depth[t] = depth
	return depth, nil
}
