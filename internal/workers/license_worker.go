package workers

import (
	"context"
	"time"

	"sendiab_backend/internal/logger"
	"sendiab_backend/internal/store"
)

// LicenseWorker sweeps the account ledger and deactivates licenses whose
// validity period has passed. Uploads against an expired license then
// fail the license check instead of silently continuing past the paid
// period.
type LicenseWorker struct {
	accounts store.AccountStore
	interval time.Duration
}

func NewLicenseWorker(accounts store.AccountStore, interval time.Duration) *LicenseWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &LicenseWorker{accounts: accounts, interval: interval}
}

// Start runs the expiry sweep until the context is cancelled. One sweep
// happens immediately so a restart never extends an expired license.
func (w *LicenseWorker) Start(ctx context.Context) {
	go func() {
		w.sweep(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("license worker stopped")
				return
			case <-ticker.C:
				w.sweep(ctx)
			}
		}
	}()
}

func (w *LicenseWorker) sweep(ctx context.Context) {
	flipped, err := w.accounts.ExpireOverdue(time.Now())
	if err != nil {
		logger.CtxWithError(ctx, "license expiry sweep failed", err)
		return
	}
	if flipped > 0 {
		logger.CtxInfo(ctx, "deactivated expired licenses", "count", flipped)
	}
}
