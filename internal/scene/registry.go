package scene

import (
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned when an object ID is not in the registry.
	ErrNotFound = errors.New("object not found")
	// ErrDuplicateID is returned when adding an object whose ID is taken.
	ErrDuplicateID = errors.New("object id already registered")
)

// Registry holds the live set of interactable objects. The selector reads
// it on every grab; the HTTP API mutates it.
type Registry struct {
	mu      sync.RWMutex
	objects map[string]Object
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{objects: make(map[string]Object)}
}

// normalized returns the object with its facing normal scaled to unit
// length. Zero normals are kept as-is; the selector skips them.
func normalized(obj Object) Object {
	if obj.Normal.Len() >= 1e-9 {
		obj.Normal = obj.Normal.Normalize()
	}
	return obj
}

// Add registers a new object. The ID must be non-empty and unused.
func (r *Registry) Add(obj Object) error {
	if obj.ID == "" {
		return errors.New("object id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.objects[obj.ID]; exists {
		return ErrDuplicateID
	}
	r.objects[obj.ID] = normalized(obj)
	r.order = append(r.order, obj.ID)
	return nil
}

// Update replaces an existing object in place.
func (r *Registry) Update(obj Object) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.objects[obj.ID]; !exists {
		return ErrNotFound
	}
	r.objects[obj.ID] = normalized(obj)
	return nil
}

// Remove deletes an object by ID.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.objects[id]; !exists {
		return ErrNotFound
	}
	delete(r.objects, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the object with the given ID.
func (r *Registry) Get(id string) (Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[id]
	return obj, ok
}

// List returns all objects in insertion order.
func (r *Registry) List() []Object {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Object, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.objects[id])
	}
	return out
}

// Replace swaps the entire registry contents, keeping the given order.
// Used when loading a persisted scene at startup.
func (r *Registry) Replace(objs []Object) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.objects = make(map[string]Object, len(objs))
	r.order = r.order[:0]
	for _, obj := range objs {
		if obj.ID == "" {
			continue
		}
		if _, exists := r.objects[obj.ID]; exists {
			continue
		}
		r.objects[obj.ID] = normalized(obj)
		r.order = append(r.order, obj.ID)
	}
}

// Len reports the number of registered objects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}
