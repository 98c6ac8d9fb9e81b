package errors

import (
	"testing"
)

func TestValidateFilePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "graphs/livejournal.graph", false},
		{"absolute", "/data/twitter.graph", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePatternSyntax(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"triangle", "0-1,0-2,1-2", false},
		{"spaces", " 0 - 1 , 1-2 ", false},
		{"single edge", "0-1", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"trailing comma", "0-1,", true},
		{"letters", "a-b", true},
		{"arrow", "0->1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePatternSyntax(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePatternSyntax(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPattern) {
				t.Errorf("want INVALID_PATTERN, got %v", err)
			}
		})
	}
}

func TestValidateHostAddress(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"localhost:2101", false},
		{"10.0.0.7:2102", false},
		{"worker-3.cluster.local:9000", false},
		{"localhost", true},
		{":2101", true},
		{"host:port", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateHostAddress(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHostAddress(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWorkerCount(t *testing.T) {
	for _, n := range []int{1, 8, 4096} {
		if err := ValidateWorkerCount(n); err != nil {
			t.Errorf("ValidateWorkerCount(%d) = %v, want nil", n, err)
		}
	}
	for _, n := range []int{0, -1, 4097} {
		if err := ValidateWorkerCount(n); err == nil {
			t.Errorf("ValidateWorkerCount(%d) = nil, want error", n)
		}
	}
}
