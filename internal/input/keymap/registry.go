package keymap

// Registry holds the active Set and answers lookups by canonical key.
//
// Registry is not safe for concurrent use; the dispatcher that owns it
// processes events one at a time.
type Registry struct {
	active *Set
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Replace makes a private copy of set the active set. Later changes to set
// do not affect the registry.
func (r *Registry) Replace(set *Set) {
	r.active = set.Clone()
}

// Clear drops the active set.
func (r *Registry) Clear() {
	r.active = nil
}

// Active reports whether a set is installed.
func (r *Registry) Active() bool {
	return r.active != nil
}

// Lookup returns the binding for k. A miss is not an error.
func (r *Registry) Lookup(k string) (Binding, bool) {
	return r.active.Lookup(k)
}

// Keys returns the active keys in declaration order.
func (r *Registry) Keys() []string {
	return r.active.Keys()
}

// Len returns the number of active keys.
func (r *Registry) Len() int {
	return r.active.Len()
}
