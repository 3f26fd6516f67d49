package checker

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// ClassifyAll classifies the addresses concurrently. The i-th result belongs to
// the i-th address.
func (c *Checker) ClassifyAll(ctx context.Context, addresses []string) []Result {
	results := make([]Result, len(addresses))
	p := pool.New().WithMaxGoroutines(c.concurrency)
	for i, addr := range addresses {
		p.Go(func() {
			results[i] = c.Classify(ctx, addr)
		})
	}
	p.Wait()
	return results
}
