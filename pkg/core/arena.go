package core

const arenaBlockSize = 64

// Arena is a bump allocator for values of type T. Memory is handed out in
// fixed-size blocks that are kept across Reset, so steady-state allocation is free.
// Pointers returned by Alloc are invalid after Reset.
type Arena[T any] struct {
	blocks [][]T
	block  int
	next   int
}

// Alloc returns a pointer to a zeroed T
func (a *Arena[T]) Alloc() *T {
	if a.block == len(a.blocks) {
		a.blocks = append(a.blocks, make([]T, arenaBlockSize))
	}
	b := a.blocks[a.block]
	p := &b[a.next]
	var zero T
	*p = zero

	a.next++
	if a.next == len(b) {
		a.block++
		a.next = 0
	}
	return p
}

// Reset makes all previously allocated slots available again
func (a *Arena[T]) Reset() {
	a.block = 0
	a.next = 0
}

// Len returns the number of live allocations
func (a *Arena[T]) Len() int {
	return a.block*arenaBlockSize + a.next
}

// Capacity returns the number of slots held by the arena
func (a *Arena[T]) Capacity() int {
	return len(a.blocks) * arenaBlockSize
}
