// Package registry provides the per-run synthesized-name counter used when
// a type reaches namer.GatherNames with no usable name of its own. A new
// Registry is constructed fresh by pipeline.Run for every invocation, never
// held as a package-level global, so concurrent runs sharing a process
// never contend on or leak names into one another.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Registry hands out unique names within one pipeline run. It is safe for
// concurrent use, mirroring the teacher's schema.Registry append-only,
// mutex-guarded design, scaled down to the one operation a name gatherer
// needs: mint a name nothing else in this run has used yet.
type Registry struct {
	mu    sync.Mutex
	used  map[string]bool
	salt  string
	anonN int
}

// New constructs an empty, salted Registry. The salt is derived from a
// fresh UUID so that synthesized names starting from the same counter value
// in two concurrent runs never collide if their outputs are ever merged
// into one log stream or rendered side by side.
func New() *Registry {
	return &Registry{
		used: make(map[string]bool),
		salt: uuid.New().String()[:8],
	}
}

// Reserve marks name as taken, so a later Synthesize or Uniquify call will
// never hand it out. Used to seed the registry with every name gathered
// from real sources before any synthesized name is minted, so synthesized
// names never shadow a real one.
func (r *Registry) Reserve(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.used[name] = true
}

// Synthesize mints a fresh, never-before-issued name for a type that
// reached name gathering with no candidate name of its own.
func (r *Registry) Synthesize() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		r.anonN++
		candidate := fmt.Sprintf("Anon%s_%d", r.salt, r.anonN)
		if !r.used[candidate] {
			r.used[candidate] = true
			return candidate
		}
	}
}

// Uniquify returns name unchanged if it has not been used yet in this
// registry, or name suffixed with an incrementing number otherwise,
// matching the teacher's collision.go numeric-suffix discipline.
func (r *Registry) Uniquify(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.used[name] {
		r.used[name] = true
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s%d", name, n)
		if !r.used[candidate] {
			r.used[candidate] = true
			return candidate
		}
	}
}
