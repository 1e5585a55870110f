package store

// mutations tracks simulated writes for one collection. The upstream mock
// API discards writes, so the server is the source of simulated truth:
// every fetched snapshot gets the recorded mutations overlaid before it
// becomes visible.
type mutations[T any] struct {
	id      func(T) int
	added   []T // newest first
	updated map[int]T
	removed map[int]struct{}
}

func newMutations[T any](id func(T) int) *mutations[T] {
	return &mutations[T]{
		id:      id,
		updated: make(map[int]T),
		removed: make(map[int]struct{}),
	}
}

func (m *mutations[T]) add(item T) {
	m.added = append([]T{item}, m.added...)
}

func (m *mutations[T]) update(item T) {
	id := m.id(item)
	for i, a := range m.added {
		if m.id(a) == id {
			m.added[i] = item
			return
		}
	}
	m.updated[id] = item
}

func (m *mutations[T]) remove(id int) {
	for i, a := range m.added {
		if m.id(a) == id {
			m.added = append(m.added[:i], m.added[i+1:]...)
			return
		}
	}
	delete(m.updated, id)
	m.removed[id] = struct{}{}
}

// overlay applies the recorded mutations to a fetched snapshot: locally
// added records lead the collection, removed ones disappear, updated ones
// replace their fetched versions.
func (m *mutations[T]) overlay(items []T) []T {
	out := make([]T, 0, len(m.added)+len(items))
	out = append(out, m.added...)
	for _, it := range items {
		id := m.id(it)
		if _, gone := m.removed[id]; gone {
			continue
		}
		if up, ok := m.updated[id]; ok {
			it = up
		}
		out = append(out, it)
	}
	return out
}
