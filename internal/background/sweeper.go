package background

import (
	"context"
	"log/slog"
	"time"
)

// PhotoLister enumerates the URLs of every stored photo object
type PhotoLister interface {
	ListURLs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, url string) error
}

// ImageURLSource reports the photo URLs still referenced by criminal records
type ImageURLSource interface {
	ImageURLs(ctx context.Context) ([]string, error)
}

// PhotoSweeper periodically deletes stored photo objects no longer referenced
// by any criminal record. Failed record updates and best-effort deletes can
// leave objects behind; the sweeper reclaims them.
type PhotoSweeper struct {
	photos   PhotoLister
	records  ImageURLSource
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewPhotoSweeper creates a new photo sweeper
func NewPhotoSweeper(
	photos PhotoLister,
	records ImageURLSource,
	logger *slog.Logger,
	interval time.Duration,
) *PhotoSweeper {
	return &PhotoSweeper{
		photos:   photos,
		records:  records,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep task
func (ps *PhotoSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(ps.interval)
	defer ticker.Stop()

	// Run immediately on startup
	ps.runSweep(ctx)

	for {
		select {
		case <-ticker.C:
			ps.runSweep(ctx)
		case <-ps.stopCh:
			ps.logger.Info("photo sweeper stopped")
			return
		case <-ctx.Done():
			ps.logger.Info("photo sweeper context cancelled")
			return
		}
	}
}

// runSweep deletes stored photos that no record references
func (ps *PhotoSweeper) runSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	stored, err := ps.photos.ListURLs(sweepCtx)
	if err != nil {
		ps.logger.Error("failed to list stored photos", slog.Any("error", err))
		return
	}

	referenced, err := ps.records.ImageURLs(sweepCtx)
	if err != nil {
		ps.logger.Error("failed to list referenced photos", slog.Any("error", err))
		return
	}

	inUse := make(map[string]struct{}, len(referenced))
	for _, url := range referenced {
		inUse[url] = struct{}{}
	}

	removed := 0
	for _, url := range stored {
		if _, ok := inUse[url]; ok {
			continue
		}
		if err := ps.photos.Delete(sweepCtx, url); err != nil {
			ps.logger.Warn("failed to delete orphaned photo",
				slog.String("url", url), slog.Any("error", err))
			continue
		}
		removed++
	}

	if removed > 0 {
		ps.logger.Info("orphaned photo sweep completed", slog.Int("removed", removed))
	}
}

// Stop signals the sweeper to stop
func (ps *PhotoSweeper) Stop() {
	close(ps.stopCh)
}
