package metrics_test

import (
	"testing"

	"github.com/openpaw/openpaw/internal/metrics"
)

func TestCountFeatures(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want metrics.Features
	}{
		{"empty", "", metrics.Features{}},
		{"single word", "hello", metrics.Features{Bytes: 5, Runes: 5, Words: 1, Lines: 1}},
		{"two lines", "set an alarm\nfor 7am", metrics.Features{Bytes: 20, Runes: 20, Words: 5, Lines: 2}},
		{"multibyte", "grüß dich", metrics.Features{Bytes: 11, Runes: 9, Words: 2, Lines: 1}},
		{"trailing newline", "hi\n", metrics.Features{Bytes: 3, Runes: 3, Words: 1, Lines: 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := metrics.CountFeatures(tc.in); got != tc.want {
				t.Fatalf("got %+v want %+v", got, tc.want)
			}
		})
	}
}
