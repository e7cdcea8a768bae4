package dashboard

// counter is an insertion-ordered tally. Chart labels and tie-breaking
// depend on encounter order, so a plain map is not enough.
type counter struct {
	keys   []string
	totals map[string]int64
}

func newCounter() *counter {
	return &counter{totals: make(map[string]int64)}
}

// Add accumulates delta for the key, registering it on first sight.
func (c *counter) Add(key string, delta int64) {
	if _, ok := c.totals[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.totals[key] += delta
}

// Get returns the tally for a key.
func (c *counter) Get(key string) int64 {
	return c.totals[key]
}

// Len returns the number of distinct keys.
func (c *counter) Len() int {
	return len(c.keys)
}

// Keys returns the keys in first-encountered order.
func (c *counter) Keys() []string {
	return c.keys
}

// Max returns the key with the highest tally. Ties resolve to the
// first-encountered key. Returns "" for an empty counter.
func (c *counter) Max() string {
	var (
		best  string
		count int64 = -1
	)
	for _, k := range c.keys {
		if c.totals[k] > count {
			best = k
			count = c.totals[k]
		}
	}
	return best
}
