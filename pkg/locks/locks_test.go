package locks

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("map_a")
			defer km.Unlock("map_a")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyedMutex_KeysAreIndependent(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("map_a")
	done := make(chan struct{})
	go func() {
		km.Lock("map_b")
		km.Unlock("map_b")
		close(done)
	}()
	<-done
	km.Unlock("map_a")
}
