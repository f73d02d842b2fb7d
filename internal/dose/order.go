package dose

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
)

// Order is a delivery sequence of spot indices. A valid order is a
// permutation of 0..n-1.
type Order []int

// Ascending delivers spots left to right.
func Ascending(n int) Order {
	o := make(Order, n)
	for i := range o {
		o[i] = i
	}
	return o
}

// Descending delivers spots right to left.
func Descending(n int) Order {
	o := make(Order, n)
	for i := range o {
		o[i] = n - 1 - i
	}
	return o
}

// RandomPermutation returns a random order that is fully determined by seed.
func RandomPermutation(n int, seed uint64) Order {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return Order(rng.Perm(n))
}

// ValidateOrder checks that order is a permutation of 0..n-1.
func ValidateOrder(order Order, n int) error {
	if len(order) == 0 {
		return fmt.Errorf("%w: order is empty", ErrInvalidOrder)
	}
	if len(order) != n {
		return fmt.Errorf("%w: order has %d entries, want %d", ErrInvalidOrder, len(order), n)
	}
	seen := make([]bool, n)
	for pos, idx := range order {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: index %d at position %d out of range [0, %d)", ErrInvalidOrder, idx, pos, n)
		}
		if seen[idx] {
			return fmt.Errorf("%w: index %d repeated at position %d", ErrInvalidOrder, idx, pos)
		}
		seen[idx] = true
	}
	return nil
}

// OrderGenerator builds an order for n spots. Deterministic generators
// ignore seed.
type OrderGenerator func(n int, seed uint64) Order

// OrderDefinition describes a registered order generator.
type OrderDefinition struct {
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Generate    OrderGenerator `json:"-"`
}

// OrderRegistry holds named order generators.
type OrderRegistry struct {
	mu   sync.RWMutex
	defs map[string]*OrderDefinition
}

// NewOrderRegistry creates an empty registry.
func NewOrderRegistry() *OrderRegistry {
	return &OrderRegistry{defs: make(map[string]*OrderDefinition)}
}

// Register adds a generator, replacing any existing one with the same name.
func (r *OrderRegistry) Register(def *OrderDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Name] = def
}

// Get retrieves a generator definition by name.
func (r *OrderRegistry) Get(name string) (*OrderDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// List returns all registered definitions sorted by name.
func (r *OrderRegistry) List() []OrderDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]OrderDefinition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, *def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefaultOrderNames is the order set used when none is configured.
var DefaultOrderNames = []string{"ascending", "descending", "random"}

// DefaultOrderRegistry returns a registry with the built-in generators.
func DefaultOrderRegistry() *OrderRegistry {
	reg := NewOrderRegistry()
	reg.Register(&OrderDefinition{
		Name:        "ascending",
		Label:       "Left → Right",
		Description: "Spots delivered in increasing index order.",
		Generate:    func(n int, _ uint64) Order { return Ascending(n) },
	})
	reg.Register(&OrderDefinition{
		Name:        "descending",
		Label:       "Right → Left",
		Description: "Spots delivered in decreasing index order.",
		Generate:    func(n int, _ uint64) Order { return Descending(n) },
	})
	reg.Register(&OrderDefinition{
		Name:        "random",
		Label:       "Random",
		Description: "A seeded random permutation, generated once and reused for every layer.",
		Generate:    RandomPermutation,
	})
	return reg
}

// NamedOrder is one member of an order set.
type NamedOrder struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Order Order  `json:"order"`
}

// BuildOrderSet generates each named order once for n spots. The same set
// is meant to be reused for every layer of a run.
func (r *OrderRegistry) BuildOrderSet(names []string, n int, seed uint64) ([]NamedOrder, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no delivery orders requested", ErrInvalidConfiguration)
	}
	set := make([]NamedOrder, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("%w: order %q listed twice", ErrInvalidConfiguration, name)
		}
		seen[name] = true

		def, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown order generator %q", ErrInvalidConfiguration, name)
		}
		order := def.Generate(n, seed)
		if err := ValidateOrder(order, n); err != nil {
			return nil, fmt.Errorf("generator %q: %w", name, err)
		}
		set = append(set, NamedOrder{Name: def.Name, Label: def.Label, Order: order})
	}
	return set, nil
}
