package accounts

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

const resetTimeout = 2 * time.Minute

// ScheduleUsageReset registers the monthly usage reset on c. A run is skipped while the
// previous one is still in progress.
func ScheduleUsageReset(c *cron.Cron, svc *Service, spec string) (cron.EntryID, error) {
	var running atomic.Bool

	id, err := c.AddFunc(spec, func() {
		if !running.CompareAndSwap(false, true) {
			log.Print("usage reset still running, skipping")
			return
		}
		defer running.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
		defer cancel()

		n, err := svc.ResetMonthlyUsage(ctx)
		if err != nil {
			log.Printf("usage reset failed: %v", err)
			return
		}
		log.Printf("usage reset: %d accounts", n)
	})
	if err != nil {
		return 0, fmt.Errorf("schedule usage reset %q: %w", spec, err)
	}
	return id, nil
}
