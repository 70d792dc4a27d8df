package web

import (
	"errors"
	"sync"

	"github.com/dmitrymomot/imagefield/pkg/imagefield"
)

// Registry owns the fields served over HTTP and the value each one last
// reported, which is what the page shows as the field's current value.
type Registry struct {
	opts []imagefield.Option

	mu     sync.RWMutex
	fields map[string]*entry
	closed bool
}

type entry struct {
	field *imagefield.Field
	label string

	mu    sync.RWMutex
	value string
}

func (e *entry) store(content string) {
	e.mu.Lock()
	e.value = content
	e.mu.Unlock()
}

func (e *entry) load() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.value
}

// NewRegistry creates an empty registry. opts are applied to every field it creates.
func NewRegistry(opts ...imagefield.Option) *Registry {
	return &Registry{
		opts:   opts,
		fields: make(map[string]*entry),
	}
}

// Register creates a field with the given id, label and initial value.
func (r *Registry) Register(id, label, value string) (*imagefield.Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}
	if _, ok := r.fields[id]; ok {
		return nil, ErrDuplicateField
	}

	e := &entry{label: label, value: value}
	opts := append(append([]imagefield.Option{}, r.opts...),
		imagefield.WithID(id),
		imagefield.WithLabel(label),
	)
	e.field = imagefield.New(value, e.store, opts...)
	r.fields[id] = e

	return e.field, nil
}

// Get returns the field registered under id.
func (r *Registry) Get(id string) (*imagefield.Field, bool) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, false
	}
	return e.field, true
}

// Value returns the last value the field reported.
func (r *Registry) Value(id string) (string, bool) {
	e, ok := r.lookup(id)
	if !ok {
		return "", false
	}
	return e.load(), true
}

// IDs returns the registered field ids in no particular order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.fields))
	for id := range r.fields {
		ids = append(ids, id)
	}
	return ids
}

// Close closes every field. The registry cannot be used to register afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, e := range r.fields {
		if err := e.field.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) lookup(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.fields[id]
	return e, ok
}
