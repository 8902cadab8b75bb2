package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SafariPackage is an offered itinerary. Read-only from the booking
// workflow's point of view; the catalogue is managed out of band.
type SafariPackage struct {
	ID                  string
	Slug                string
	Title               string
	Duration            string // free text, e.g. "5 Days / 4 Nights"
	GroupSize           string // free text, e.g. "Max 6 People"
	Overview            string
	ItineraryHighlights []string
	Inclusions          []string
	Exclusions          []string
	BestTravelSeason    string
	PriceCents          int64 // per adult
	Tags                []string
	Rating              float64
	ImageURL            string
	DestinationCategory string
	PackageCategory     string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ParseDurationDays extracts the day count from a duration string such as
// "5 Days / 4 Nights". The leading token must be a positive integer;
// anything else is an error rather than a silent zero.
func ParseDurationDays(duration string) (int, error) {
	fields := strings.Fields(strings.TrimSpace(duration))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty duration")
	}
	days, err := strconv.Atoi(fields[0])
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("unparseable duration %q", duration)
	}
	return days, nil
}

// ParseGroupSize extracts the capacity from a group-size string such as
// "Max 6 People". The second token must be a positive integer.
func ParseGroupSize(groupSize string) (int, error) {
	fields := strings.Fields(strings.TrimSpace(groupSize))
	if len(fields) < 2 {
		return 0, fmt.Errorf("unparseable group size %q", groupSize)
	}
	size, err := strconv.Atoi(fields[1])
	if err != nil || size <= 0 {
		return 0, fmt.Errorf("unparseable group size %q", groupSize)
	}
	return size, nil
}

// EndDate computes the last day of a stay starting at start: a "5 Days"
// package beginning 2025-07-01 ends 2025-07-05.
func (p *SafariPackage) EndDate(start time.Time) (time.Time, error) {
	days, err := ParseDurationDays(p.Duration)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, days-1), nil
}
