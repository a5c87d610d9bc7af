package main

import (
	"context"
	"time"

	"github.com/perfkit/usertop/internal/log"
	"github.com/perfkit/usertop/pkg/sampler"
)

type passSampler interface {
	Sample(baseline bool) error
	Totals() []sampler.UserTotal
}

type reportWriter interface {
	Write(totals []sampler.UserTotal) error
	Name() string
}

type limiter interface {
	WaitDuration() time.Duration
	Name() string
}

// run performs the baseline pass, then one charging pass per tick for the
// requested number of seconds, then writes the ranked report. Cancelling
// ctx cuts the run short and reports whatever has been charged so far.
func run(ctx context.Context, s passSampler, w reportWriter, l limiter, seconds int) error {
	// seed history so CPU time spent before the run started is excluded
	if err := s.Sample(true); err != nil {
		return err
	}

loop:
	for i := 0; i < seconds; i++ {
		select {
		case <-ctx.Done():
			log.Debug("run cancelled after %d of %d passes", i, seconds)
			break loop
		case <-time.After(l.WaitDuration()):
		}

		start := time.Now()
		if err := s.Sample(false); err != nil {
			// a lost pass must not lose what earlier passes charged
			log.Debug("sampling pass skipped: %v", err)
			continue
		}
		log.Debug("pass %d of %d sampled in %s", i+1, seconds, time.Since(start))
	}

	log.Debug("writing report to %s", w.Name())
	return w.Write(s.Totals())
}
