package supertag

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternCategoryIdentity(t *testing.T) {
	a := InternCategory("S/NP")
	b := InternCategory("S/NP")
	c := InternCategory("S\\NP")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "S/NP", a.String())
}

func TestInternCategoryConcurrent(t *testing.T) {
	const n = 32
	out := make([]*Category, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = InternCategory("(S\\NP)/NP")
		}(i)
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		assert.Same(t, out[0], out[i])
	}
}

func TestCategoryIsFunctor(t *testing.T) {
	assert.False(t, InternCategory("NP").IsFunctor())
	assert.True(t, InternCategory("S/NP").IsFunctor())
	assert.True(t, InternCategory("S\\NP").IsFunctor())
}
