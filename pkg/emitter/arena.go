package emitter

// slots is a fixed-identity arena. Values stay at their index until swept, and
// freed indices are reused by later inserts, so iteration never shifts
// entries underneath the caller.
type slots[T any] struct {
	items []T
	alive []bool
	free  []int
	live  int
}

// insert stores v in a free slot, growing the arena when none is left.
func (s *slots[T]) insert(v T) int {
	var i int
	if n := len(s.free); n > 0 {
		i = s.free[n-1]
		s.free = s.free[:n-1]
		s.items[i] = v
		s.alive[i] = true
	} else {
		i = len(s.items)
		s.items = append(s.items, v)
		s.alive = append(s.alive, true)
	}
	s.live++
	return i
}

// each visits every live slot once, in index order.
func (s *slots[T]) each(fn func(v *T)) {
	for i := range s.items {
		if s.alive[i] {
			fn(&s.items[i])
		}
	}
}

// sweep frees every live slot for which dead returns true and reports how
// many were freed.
func (s *slots[T]) sweep(dead func(v *T) bool) int {
	var zero T
	freed := 0
	for i := range s.items {
		if !s.alive[i] || !dead(&s.items[i]) {
			continue
		}
		s.alive[i] = false
		s.items[i] = zero
		s.free = append(s.free, i)
		freed++
	}
	s.live -= freed
	return freed
}

// count returns the number of live slots.
func (s *slots[T]) count() int {
	return s.live
}
