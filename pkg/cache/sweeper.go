package cache

import "time"

// startSweeper launches the background goroutine that periodically evicts
// expired entries. The cache owns the goroutine; Close stops it.
func (c *Cache) startSweeper() {
	c.sweepStop = make(chan struct{})
	c.sweepDone = make(chan struct{})
	go c.sweepLoop()
}

// sweepLoop runs ClearExpired on every tick until Close. A ticker-driven full
// scan keeps the design simple; per-entry timers would be far more expensive
// to own.
func (c *Cache) sweepLoop() {
	defer close(c.sweepDone)

	ticker := time.NewTicker(c.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.sweepStop:
			return
		case <-ticker.C:
			c.ClearExpired()
		}
	}
}

// Close stops the background sweep and waits for it to finish. It is safe to
// call multiple times. The cache remains usable afterwards; only lazy
// expiration and explicit ClearExpired calls evict entries from then on.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		if c.sweepStop == nil {
			return
		}
		close(c.sweepStop)
		<-c.sweepDone
		c.log.Debug().Msg("sweeper stopped")
	})
}
