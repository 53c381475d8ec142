package authentication

import "testing"

func TestGenerateOTP(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		otp := GenerateOTP(length)
		if len(otp) != length {
			t.Errorf("GenerateOTP(%d) returned %q with length %d", length, otp, len(otp))
		}
		for _, ch := range otp {
			if ch < '0' || ch > '9' {
				t.Errorf("GenerateOTP(%d) returned non-digit %q", length, otp)
				break
			}
		}
	}
}

func TestValidateOTP(t *testing.T) {
	tests := []struct {
		name   string
		otp    string
		stored string
		want   bool
	}{
		{"matching", "123456", "123456", true},
		{"mismatched", "123456", "654321", false},
		{"empty submitted", "", "123456", false},
		{"both empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateOTP(tt.otp, tt.stored); got != tt.want {
				t.Errorf("ValidateOTP(%q, %q) = %v, want %v", tt.otp, tt.stored, got, tt.want)
			}
		})
	}
}
