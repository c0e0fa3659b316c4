package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Trimmer drops daily scan entries that have aged out of the history window.
type Trimmer struct {
	Store StoreInterface
	Log   *slog.Logger
	Now   func() time.Time
}

func NewTrimmer(store StoreInterface, log *slog.Logger) *Trimmer {
	if log == nil {
		log = slog.Default()
	}
	return &Trimmer{Store: store, Log: log, Now: time.Now}
}

// Run trims every restaurant and returns how many documents changed. A
// restaurant that cannot be trimmed is logged and skipped.
func (t *Trimmer) Run(ctx context.Context) (int, error) {
	ids, err := t.Store.RestaurantIDs(ctx)
	if err != nil {
		return 0, err
	}

	today := t.Now()
	changed := 0
	for _, id := range ids {
		ok, err := t.Store.TrimDailyScans(ctx, id, today)
		if err != nil {
			t.Log.Warn("error trimming daily scans", "restaurant_id", id, "error", err)
			continue
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

// Schedule starts a cron that runs the trimmer on schedule, e.g. "@daily".
// Callers stop the returned cron on shutdown.
func (t *Trimmer) Schedule(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		n, err := t.Run(context.Background())
		if err != nil {
			t.Log.Error("daily scan trim failed", "error", err)
			return
		}
		t.Log.Info("daily scans trimmed", "restaurants", n)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
