package pool_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/jroosing/mmws/internal/pool"
	"github.com/stretchr/testify/assert"
)

func TestPool_ConstructorCalled(t *testing.T) {
	calls := 0
	p := pool.New(func() int {
		calls++
		return calls
	})

	assert.Equal(t, 1, p.Get())
	assert.Equal(t, 2, p.Get())
	assert.Equal(t, 2, calls)
}

func TestBuffers_GetIsEmpty(t *testing.T) {
	b := pool.NewBuffers()

	buf := b.Get()
	buf.WriteString(`{"result":{}}`)
	b.Put(buf)

	again := b.Get()
	assert.Zero(t, again.Len())
}

func TestBuffers_DropsLargeBuffers(t *testing.T) {
	b := pool.NewBuffers()

	big := bytes.NewBufferString(strings.Repeat("x", 2<<20))
	b.Put(big)
	b.Put(nil)

	got := b.Get()
	assert.Zero(t, got.Len())
	assert.NotSame(t, big, got)
}

func TestBuffers_ConcurrentAccess(t *testing.T) {
	b := pool.NewBuffers()

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			for range 200 {
				buf := b.Get()
				buf.WriteString("Users/1")
				if buf.String() != "Users/1" {
					t.Error("buffer was shared between goroutines")
				}
				b.Put(buf)
			}
		})
	}
	wg.Wait()
}

func BenchmarkBuffers_GetPut(b *testing.B) {
	p := pool.NewBuffers()
	for b.Loop() {
		buf := p.Get()
		buf.WriteString(`{"result":{"users":[]}}`)
		p.Put(buf)
	}
}
