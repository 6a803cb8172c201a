package services

import (
	"context"
	"time"

	"yacht_charter_backend/pkg/utils"
)

// ExpiryWorker periodically cancels stale unpaid bookings so they stop holding boats.
type ExpiryWorker struct {
	bookings BookingService
	ttl      time.Duration
	interval time.Duration
}

func NewExpiryWorker(bookings BookingService, ttl, interval time.Duration) *ExpiryWorker {
	return &ExpiryWorker{bookings: bookings, ttl: ttl, interval: interval}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (w *ExpiryWorker) Run(ctx context.Context) error {
	if w.interval <= 0 || w.ttl <= 0 {
		utils.LogInfo("Pending booking expiry disabled")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	n, err := w.bookings.ExpirePendingBookings(ctx, w.ttl)
	if err != nil {
		if ctx.Err() == nil {
			utils.LogError(err, "Pending booking expiry sweep failed")
		}
		return
	}
	if n > 0 {
		utils.LogInfo("Expired stale pending bookings", map[string]interface{}{"count": n, "ttl": w.ttl.String()})
	}
}
