package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCarts_AreIsolatedPerTerminal(t *testing.T) {
	c := NewCarts()

	c.Dispatch("T1", AddItem{Item: burger})
	c.Dispatch("T1", AddItem{Item: burger})
	c.Dispatch("T2", AddItem{Item: fries})

	assert.Equal(t, 2, c.Get("T1").Lines[0].Quantity)
	assert.Equal(t, "fries", c.Get("T2").Lines[0].Item.ID)
	assert.Empty(t, c.Get("T3").Lines)

	c.Forget("T1")
	assert.Empty(t, c.Get("T1").Lines)
}

func TestCarts_ConcurrentDispatch(t *testing.T) {
	c := NewCarts()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Dispatch("T1", AddItem{Item: fries})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Get("T1").Lines[0].Quantity)
}
