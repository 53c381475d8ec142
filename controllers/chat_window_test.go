package controllers

import (
	"testing"
	"time"
)

func TestRoomOpen(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt time.Time
		want      bool
	}{
		{"just created", now, true},
		{"one day old", now.Add(-24 * time.Hour), true},
		{"just inside window", now.Add(-ChatWindow + time.Second), true},
		{"exactly at window", now.Add(-ChatWindow), false},
		{"past window", now.Add(-ChatWindow - time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoomOpen(tt.createdAt, now); got != tt.want {
				t.Errorf("RoomOpen(%v) = %v, want %v", tt.createdAt, got, tt.want)
			}
		})
	}
}
