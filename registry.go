package ormbridge

import (
	"reflect"
	"sync"

	"github.com/ormbridge/ormbridge/mirror"
)

// Registry holds the bidirectional mapping between source model types and
// their generated mirror models. All indices move together under one lock.
type Registry struct {
	mu             sync.RWMutex
	sourceToTarget map[reflect.Type]*mirror.Model
	targetToSource map[*mirror.Model]reflect.Type
	byLabel        map[string]*mirror.Model
	ordered        []*mirror.Model
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.sourceToTarget = map[reflect.Type]*mirror.Model{}
	r.targetToSource = map[*mirror.Model]reflect.Type{}
	r.byLabel = map[string]*mirror.Model{}
	r.ordered = nil
}

// Register records a generated model under its source type and label.
// Re-registering a source type replaces the previous entry.
func (r *Registry) Register(source reflect.Type, model *mirror.Model, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.sourceToTarget[source]; ok {
		delete(r.targetToSource, old)
		for l, m := range r.byLabel {
			if m == old {
				delete(r.byLabel, l)
			}
		}
		for i, m := range r.ordered {
			if m == old {
				r.ordered = append(r.ordered[:i], r.ordered[i+1:]...)
				break
			}
		}
	}

	r.sourceToTarget[source] = model
	r.targetToSource[model] = source
	r.byLabel[label] = model
	r.ordered = append(r.ordered, model)
}

// GetTarget returns the mirror model generated for a source type, or nil.
func (r *Registry) GetTarget(source reflect.Type) *mirror.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sourceToTarget[source]
}

// GetSource returns the source type a mirror model was generated from.
func (r *Registry) GetSource(model *mirror.Model) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.targetToSource[model]
	return t, ok
}

// GetByLabel returns the mirror model for a "pkg.Model" source label.
func (r *Registry) GetByLabel(label string) *mirror.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byLabel[label]
}

// AllTargets returns the generated models in registration order.
func (r *Registry) AllTargets() []*mirror.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*mirror.Model, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}

// Clear drops every entry. All indices empty out atomically.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}
