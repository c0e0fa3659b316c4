package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDailyScan(t *testing.T) {
	tests := []struct {
		name  string
		scans []DailyScan
		date  string
		want  []DailyScan
	}{
		{
			name: "first scan",
			date: "2026-10-15",
			want: []DailyScan{{Date: "2026-10-15", Count: 1}},
		},
		{
			name:  "same day increments",
			scans: []DailyScan{{Date: "2026-10-15", Count: 4}, {Date: "2026-10-14", Count: 2}},
			date:  "2026-10-15",
			want:  []DailyScan{{Date: "2026-10-15", Count: 5}, {Date: "2026-10-14", Count: 2}},
		},
		{
			name:  "new day goes first",
			scans: []DailyScan{{Date: "2026-10-13", Count: 1}, {Date: "2026-10-14", Count: 2}},
			date:  "2026-10-15",
			want: []DailyScan{
				{Date: "2026-10-15", Count: 1},
				{Date: "2026-10-14", Count: 2},
				{Date: "2026-10-13", Count: 1},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, ApplyDailyScan(testCase.scans, testCase.date))
		})
	}
}

func TestApplyDailyScan_CapsHistory(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	var scans []DailyScan
	for i := 0; i < MaxDailyScans; i++ {
		scans = append(scans, DailyScan{Date: start.AddDate(0, 0, i).Format(DateLayout), Count: i + 1})
	}

	got := ApplyDailyScan(scans, "2026-10-15")

	assert.Len(t, got, MaxDailyScans)
	assert.Equal(t, "2026-10-15", got[0].Date)
	assert.Equal(t, "2026-09-02", got[len(got)-1].Date, "oldest day falls off")
	assert.Equal(t, "2026-09-01", scans[0].Date, "input untouched")
}

func TestTrimDailyScans(t *testing.T) {
	today := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	scans := []DailyScan{
		{Date: "2026-09-15", Count: 1},
		{Date: "2026-09-16", Count: 2},
		{Date: "2026-10-15", Count: 3},
	}

	got := TrimDailyScans(scans, today)

	assert.Equal(t, []DailyScan{{Date: "2026-10-15", Count: 3}, {Date: "2026-09-16", Count: 2}}, got)
}

func TestScanEvent_FromQR(t *testing.T) {
	for source, want := range map[string]bool{"qr": true, "link": false, "": false} {
		t.Run(fmt.Sprintf("source %q", source), func(t *testing.T) {
			assert.Equal(t, want, ScanEvent{Source: source}.FromQR())
		})
	}
}
