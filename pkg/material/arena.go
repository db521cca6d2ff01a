package material

import (
	"reflect"

	"github.com/df07/go-pathtracer/pkg/core"
)

type resetter interface {
	Reset()
}

// Arena hands out short-lived scattering objects (BSDFs and lobes) for one
// pixel sample. It keeps one bump pool per type and is not safe for concurrent use;
// each render tile owns its own.
type Arena struct {
	pools map[reflect.Type]resetter
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{pools: make(map[reflect.Type]resetter)}
}

// Make copies v into the arena and returns a pointer to the copy.
// A nil arena allocates on the heap.
func Make[T any](arena *Arena, v T) *T {
	if arena == nil {
		p := new(T)
		*p = v
		return p
	}
	p := pool[T](arena).Alloc()
	*p = v
	return p
}

func pool[T any](arena *Arena) *core.Arena[T] {
	key := reflect.TypeFor[T]()
	if p, ok := arena.pools[key]; ok {
		return p.(*core.Arena[T])
	}
	p := &core.Arena[T]{}
	arena.pools[key] = p
	return p
}

// Reset releases every allocation. Pointers handed out before are invalid afterwards.
func (a *Arena) Reset() {
	for _, p := range a.pools {
		p.Reset()
	}
}
