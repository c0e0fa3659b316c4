package domain

import (
	"errors"
	"sort"
	"time"
)

const (
	ScanEventType = "menu_scanned"
	ScanTopic     = "menu-scans"

	// MaxDailyScans bounds the per-restaurant history kept in the document.
	MaxDailyScans = 30
	DateLayout    = "2006-01-02"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

// ScanEvent is published by the menu service each time a public menu opens.
type ScanEvent struct {
	Type         string    `json:"type"`
	RestaurantID string    `json:"restaurant_id"`
	Source       string    `json:"source"`
	Timestamp    time.Time `json:"timestamp"`
}

// FromQR reports whether the visitor arrived through a table QR code.
func (e ScanEvent) FromQR() bool { return e.Source == "qr" }

type DailyScan struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ApplyDailyScan counts one scan on date and returns the history sorted newest
// first and capped at MaxDailyScans. The input slice is not modified.
func ApplyDailyScan(scans []DailyScan, date string) []DailyScan {
	out := make([]DailyScan, 0, len(scans)+1)
	found := false
	for _, s := range scans {
		if s.Date == date {
			s.Count++
			found = true
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, DailyScan{Date: date, Count: 1})
	}
	return capNewest(out)
}

// TrimDailyScans drops entries older than MaxDailyScans days before today.
func TrimDailyScans(scans []DailyScan, today time.Time) []DailyScan {
	cutoff := today.UTC().AddDate(0, 0, -(MaxDailyScans - 1)).Format(DateLayout)
	out := make([]DailyScan, 0, len(scans))
	for _, s := range scans {
		if s.Date >= cutoff {
			out = append(out, s)
		}
	}
	return capNewest(out)
}

func capNewest(scans []DailyScan) []DailyScan {
	sort.SliceStable(scans, func(i, j int) bool { return scans[i].Date > scans[j].Date })
	if len(scans) > MaxDailyScans {
		scans = scans[:MaxDailyScans]
	}
	return scans
}
