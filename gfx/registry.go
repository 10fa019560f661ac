package gfx

// Releaser is a native handle that must be freed exactly once.
type Releaser interface {
	Release()
}

// Storage is a slot array that reuses freed ids.
type Storage[T any] struct {
	available []int // Todo: use min heap
	Valid     []bool
	Data      []T
}

func NewStorage[T any]() *Storage[T] {
	return &Storage[T]{
		make([]int, 0),
		make([]bool, 0),
		make([]T, 0),
	}
}

func (s *Storage[T]) Emplace(v T) int {
	if len(s.available) > 0 {
		id := s.available[0]
		s.available = s.available[1:]
		s.Data[id] = v
		s.Valid[id] = true
		return id
	} else {
		id := len(s.Data)
		s.Data = append(s.Data, v)
		s.Valid = append(s.Valid, true)
		return id
	}
}

// Remove frees id. Removing a free or out-of-range id is a no-op.
func (s *Storage[T]) Remove(id int) {
	if id < 0 || id >= len(s.Valid) || !s.Valid[id] {
		return
	}
	var zero T
	s.Data[id] = zero
	s.available = append(s.available, id)
	s.Valid[id] = false
}

func (s *Storage[T]) Len() int {
	return len(s.Data) - len(s.available)
}

// Registry tracks live GPU resources so the context can free whatever is
// left at shutdown, newest first.
type Registry struct {
	items *Storage[Releaser]
	order []int
}

func NewRegistry() *Registry {
	return &Registry{items: NewStorage[Releaser]()}
}

func (r *Registry) Track(res Releaser) int {
	id := r.items.Emplace(res)
	r.order = append(r.order, id)
	return id
}

// Release frees one tracked resource and forgets it.
func (r *Registry) Release(id int) {
	if id < 0 || id >= len(r.items.Valid) || !r.items.Valid[id] {
		return
	}
	r.items.Data[id].Release()
	r.forget(id)
}

func (r *Registry) forget(id int) {
	r.items.Remove(id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) Len() int {
	return r.items.Len()
}

// ReleaseAll frees every tracked resource in reverse creation order.
func (r *Registry) ReleaseAll() {
	for i := len(r.order) - 1; i >= 0; i-- {
		id := r.order[i]
		r.items.Data[id].Release()
		r.items.Remove(id)
	}
	r.order = r.order[:0]
}
