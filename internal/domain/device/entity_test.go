package device

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"open", StatusOpen, false},
		{"closed", StatusClosed, false},
		{"offline", StatusOffline, false},
		{"ajar", "", true},
		{"OPEN", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidStatus) {
				t.Errorf("ParseStatus(%q) error = %v, want ErrInvalidStatus", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStatus(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusOpen, StatusClosed, StatusOffline} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("broken").IsValid() {
		t.Error("unknown status should be invalid")
	}
}
