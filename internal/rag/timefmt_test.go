package rag

import "testing"

func TestFormatTimestamp(t *testing.T) {
	cases := map[float64]string{
		0:      "00:00",
		9:      "00:09",
		65:     "01:05",
		3599:   "59:59",
		3600:   "01:00:00",
		3665:   "01:01:05",
		7325.9: "02:02:05",
	}
	for in, want := range cases {
		if got := FormatTimestamp(in); got != want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", in, got, want)
		}
	}
}
