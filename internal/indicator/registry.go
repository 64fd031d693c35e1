package indicator

import "fmt"

// Registry maps indicator names to Definitions. It is built once at process
// start and read-only afterward, so no locking is needed. Pass it by
// reference to consumers instead of reaching for package-level state.
type Registry struct {
	defs  map[string]Definition
	names []string // registration order, for stable listings
}

// NewRegistry returns a registry populated with all built-in indicators.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]Definition, 8)}
	for _, def := range []Definition{
		NewMA(),
		NewEMA(),
		NewMACD(),
		NewRSI(),
		NewKDJ(),
		NewATR(),
		NewVOL(),
	} {
		if err := r.Register(def); err != nil {
			// Built-ins are registered exactly once; a duplicate here is a
			// programming error.
			panic(err)
		}
	}
	return r
}

// Register adds a Definition. Only call during startup, before the registry
// is shared.
func (r *Registry) Register(def Definition) error {
	name := def.Name()
	if name == "" {
		return fmt.Errorf("register indicator: empty name")
	}
	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("register indicator: duplicate name %q", name)
	}
	r.defs[name] = def
	r.names = append(r.names, name)
	return nil
}

// Lookup resolves an indicator name. Names are case-sensitive.
func (r *Registry) Lookup(name string) (Definition, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndicator, name)
	}
	return def, nil
}

// Names returns all registered indicator names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
