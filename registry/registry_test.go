package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_SynthesizeNeverRepeats(t *testing.T) {
	r := New()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := r.Synthesize()
		assert.False(t, seen[n])
		seen[n] = true
	}
}

func TestRegistry_UniquifyAppendsSuffixOnCollision(t *testing.T) {
	r := New()
	a := r.Uniquify("Person")
	b := r.Uniquify("Person")
	c := r.Uniquify("Person")
	assert.Equal(t, "Person", a)
	assert.Equal(t, "Person2", b)
	assert.Equal(t, "Person3", c)
}

func TestRegistry_ReservePreventsLaterCollisionSilently(t *testing.T) {
	r := New()
	r.Reserve("Car")
	got := r.Uniquify("Car")
	assert.Equal(t, "Car2", got)
}

func TestRegistry_DifferentInstancesHaveDifferentSalts(t *testing.T) {
	r1 := New()
	r2 := New()
	assert.NotEqual(t, r1.Synthesize(), r2.Synthesize())
}
