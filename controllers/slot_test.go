package controllers

import (
	"testing"
	"time"
)

func TestSlotInPast(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		date      time.Time
		startTime string
		want      bool
	}{
		{"tomorrow", time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), "09:00", false},
		{"yesterday", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), "09:00", true},
		{"today later", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "16:30", false},
		{"today earlier", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "09:00", true},
		{"today exactly now", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "14:00", true},
		{"bad time format", time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), "9am", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SlotInPast(tt.date, tt.startTime, now)
			if got != tt.want {
				t.Errorf("SlotInPast(%v, %q) = %v, want %v", tt.date, tt.startTime, got, tt.want)
			}
		})
	}
}
