package jobs

import (
	"context"
	"time"

	"equiprent-backend/internal/logger"
)

// ExpireActiveRentals completes every active rental past its effective
// end date and returns the reserved stock. Failures are logged and left
// for the next scheduled run; the job never crashes the process.
func (jr *JobRunner) ExpireActiveRentals() {
	jr.runWithRecovery("ExpireActiveRentals", func() {
		ctx := context.Background()

		count, err := jr.rentalSvc.ExpireActiveRentals(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to expire active rentals", "error", err)
			return
		}
		logger.Info("Completed expired rentals", "count", count)
	})
}
