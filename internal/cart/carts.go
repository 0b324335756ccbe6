package cart

import "sync"

// Carts holds one cart per terminal
type Carts struct {
	mu    sync.Mutex
	carts map[string]State
}

// NewCarts creates an empty cart registry
func NewCarts() *Carts {
	return &Carts{carts: make(map[string]State)}
}

// Get returns the cart of a terminal. Unknown terminals have an empty cart.
func (c *Carts) Get(terminal string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.carts[terminal]
	if !ok {
		return State{Lines: []Line{}}
	}
	return s
}

// Dispatch applies an action to a terminal's cart and returns the new state
func (c *Carts) Dispatch(terminal string, a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.carts[terminal]
	if !ok {
		s = State{Lines: []Line{}}
	}
	s = Reduce(s, a)
	c.carts[terminal] = s
	return s
}

// Forget drops a terminal's cart
func (c *Carts) Forget(terminal string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.carts, terminal)
}
