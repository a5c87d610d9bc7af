package main

import "time"

// constTicker paces charging passes at a fixed interval, nominally one
// second apart. Sleeping between passes means a pass that takes a while
// drifts the schedule rather than overlapping the next pass; passes never
// run concurrently.
type constTicker struct {
	interval time.Duration
}

func (c *constTicker) WaitDuration() time.Duration {
	return c.interval
}

// Name is the name of this limiter
func (c *constTicker) Name() string {
	return "constant interval"
}
