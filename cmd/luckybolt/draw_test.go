package main

import "testing"

func TestCardPath(t *testing.T) {
	tests := []struct {
		base     string
		i, count int
		expected string
	}{
		{"ticket.png", 0, 1, "ticket.png"},
		{"ticket.png", 0, 3, "ticket-1.png"},
		{"out/ticket.png", 2, 3, "out/ticket-3.png"},
		{"ticket", 1, 2, "ticket-2"},
	}
	for _, tc := range tests {
		if got := cardPath(tc.base, tc.i, tc.count); got != tc.expected {
			t.Errorf("cardPath(%q, %d, %d) = %q, expected %q", tc.base, tc.i, tc.count, got, tc.expected)
		}
	}
}
