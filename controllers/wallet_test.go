package controllers

import "testing"

func TestDoctorShare(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		share  float64
		want   float64
	}{
		{"booking share of 500", 500, BookingDoctorShare, 450},
		{"emergency share of 500", 500, EmergencyDoctorShare, 425},
		{"booking share of 999", 999, BookingDoctorShare, 899.1},
		{"rounds to paise", 333.33, EmergencyDoctorShare, 283.33},
		{"zero amount", 0, BookingDoctorShare, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DoctorShare(tt.amount, tt.share)
			if got != tt.want {
				t.Errorf("DoctorShare(%v, %v) = %v, want %v", tt.amount, tt.share, got, tt.want)
			}
		})
	}
}
