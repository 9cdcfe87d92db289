package formatting_test

import (
	"testing"

	"github.com/JaimeStill/cookbook/pkg/formatting"
)

const (
	kb = int64(1024)
	mb = kb * 1024
	gb = mb * 1024
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"1024", 1024, false},
		{"512B", 512, false},
		{"1KB", kb, false},
		{"512k", 512 * kb, false},
		{"10MB", 10 * mb, false},
		{"10mb", 10 * mb, false},
		{"2 GiB", 2 * gb, false},
		{"1.5MB", mb + mb/2, false},
		{"  50MB  ", 50 * mb, false},
		{"1TB", 1024 * gb, false},
		{"0", 0, false},
		{"", 0, true},
		{"MB", 0, true},
		{"50XX", 0, true},
		{"-5MB", 0, true},
		{"1.2.3MB", 0, true},
		{"16EB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 2, "0 B"},
		{500, 2, "500 B"},
		{kb, 0, "1 KB"},
		{10 * mb, 0, "10 MB"},
		{mb + mb/2, 1, "1.5 MB"},
		{gb, -1, "1 GB"},
		{-2 * kb, 0, "-2 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int64{kb, 50 * mb, gb, 1024 * gb} {
		formatted := formatting.FormatBytes(n, 0)
		parsed, err := formatting.ParseBytes(formatted)
		if err != nil {
			t.Fatalf("ParseBytes(%q): %v", formatted, err)
		}
		if parsed != n {
			t.Errorf("%d formatted as %q parsed back as %d", n, formatted, parsed)
		}
	}
}
