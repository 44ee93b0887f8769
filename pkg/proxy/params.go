package proxy

import (
	"fmt"
	"strconv"
)

// parsePage interprets the page query parameter. Empty string and the
// literal "null" both mean "no page specified"; anything else must be a
// non-negative integer.
func parsePage(raw string) (*int, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("page must be a non-negative integer, got %q", raw)
	}
	return &n, nil
}

// parseDelay interprets the delay query parameter, a throttling hint
// forwarded to the upstream scraper.
func parseDelay(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("delay must be a non-negative integer, got %q", raw)
	}
	return n, nil
}
