package datemath

import (
	"fmt"
	"strings"
	"time"
)

// Parser resolves calendar dates in a fixed timezone.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "Europe/Paris"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// Location returns the parser's timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

// ParseDate parses a YYYY-MM-DD date as midnight in the parser's timezone.
// Impossible dates such as 2025-02-30 are rejected.
func (p *Parser) ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), p.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// AllDay returns the all-day range covering date.
func (p *Parser) AllDay(date string) (DayRange, error) {
	start, err := p.ParseDate(date)
	if err != nil {
		return DayRange{}, err
	}
	return DayRange{Start: start, End: start.AddDate(0, 0, 1)}, nil
}
