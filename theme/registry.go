package theme

// Registry keeps theme definitions of one kind in registration order.
type Registry[T Definition] struct {
	keys []string
	defs map[string]T
}

func NewRegistry[T Definition]() *Registry[T] {
	return &Registry[T]{defs: make(map[string]T)}
}

// Add registers def under its key. Replacing an existing key keeps its
// position.
func (r *Registry[T]) Add(def T) {
	key := def.Summary().Key
	if _, ok := r.defs[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.defs[key] = def
}

func (r *Registry[T]) Get(key string) (T, bool) {
	def, ok := r.defs[key]
	return def, ok
}

func (r *Registry[T]) Has(key string) bool {
	_, ok := r.defs[key]
	return ok
}

// Keys returns the registered keys in order.
func (r *Registry[T]) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r *Registry[T]) Len() int {
	return len(r.keys)
}

// List returns the summaries in order.
func (r *Registry[T]) List() []Summary {
	out := make([]Summary, 0, len(r.keys))
	for _, key := range r.keys {
		out = append(out, r.defs[key].Summary())
	}
	return out
}
