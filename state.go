package gorbie

import (
	"fmt"
	"reflect"
)

// StateStore is a per-run table mapping stable keys to typed, mutable cells.
// Cells are created lazily on first access and live until the run ends; the
// store performs no invalidation or dependency tracking. Correctness relies
// on the notebook definition re-deriving its structure every frame from
// current cell values.
//
// The store is owned by the single execution context active for a frame and
// is not safe for concurrent mutation.
type StateStore struct {
	cells map[string]*Cell
}

// NewStateStore creates an empty state store.
func NewStateStore() *StateStore {
	return &StateStore{cells: make(map[string]*Cell)}
}

// Cell is one persistent, type-tagged value box. A cell never changes type
// after creation and is never destroyed until the run ends.
type Cell struct {
	key   string
	typ   reflect.Type
	value any
}

// Key returns the cell's stable key.
func (c *Cell) Key() string { return c.key }

// Type returns the cell's type tag, fixed at first initialization.
func (c *Cell) Type() reflect.Type { return c.typ }

// Value returns the cell's current boxed value.
func (c *Cell) Value() any { return c.value }

// TypeMismatchError reports a key being reused with a different type. This
// indicates a defect in the notebook definition and is not recoverable.
type TypeMismatchError struct {
	Key  string
	Want reflect.Type
	Got  reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("gorbie: state key %q holds %v, requested as %v", e.Key, e.Got, e.Want)
}

// GetOrInit returns the cell for key, creating it with init's value on first
// access. The init function is evaluated at most once per key for the life
// of the run; subsequent calls ignore it entirely. A call with an existing
// key but a different type fails with *TypeMismatchError.
//
// An empty key is rejected: stable keys are the only identity cells have.
func (s *StateStore) GetOrInit(key string, typ reflect.Type, init func() any) (*Cell, error) {
	if key == "" {
		return nil, fmt.Errorf("gorbie: empty state key")
	}
	if cell, ok := s.cells[key]; ok {
		if cell.typ != typ {
			return nil, &TypeMismatchError{Key: key, Want: typ, Got: cell.typ}
		}
		return cell, nil
	}
	cell := &Cell{key: key, typ: typ, value: init()}
	s.cells[key] = cell
	return cell, nil
}

// Get returns the cell for key if it exists.
func (s *StateStore) Get(key string) (*Cell, bool) {
	cell, ok := s.cells[key]
	return cell, ok
}

// Len returns the number of live cells.
func (s *StateStore) Len() int { return len(s.cells) }

// Handle is a typed view of one state cell. Reads are valid for the current
// frame; the next frame must re-read through the handle rather than alias
// the previous frame's value.
type Handle[T any] struct {
	cell *Cell
}

// Get returns the cell's current value.
func (h Handle[T]) Get() T { return h.cell.value.(T) }

// Set replaces the cell's value.
func (h Handle[T]) Set(v T) { h.cell.value = v }

// Key returns the underlying cell's key.
func (h Handle[T]) Key() string { return h.cell.key }

// Use returns a typed handle for key, initializing the cell with init on
// first access. It is the error-returning form of [State]; init runs at most
// once per key regardless of how many frames call Use.
func Use[T any](store *StateStore, key string, init func() T) (Handle[T], error) {
	typ := reflect.TypeFor[T]()
	cell, err := store.GetOrInit(key, typ, func() any { return init() })
	if err != nil {
		return Handle[T]{}, err
	}
	return Handle[T]{cell: cell}, nil
}
