package models

import "strings"

// Quadrant is one of the four Eisenhower-Matrix buckets.
type Quadrant string

const (
	QuadrantDoNow     Quadrant = "DO_NOW"
	QuadrantSchedule  Quadrant = "SCHEDULE"
	QuadrantDelegate  Quadrant = "DELEGATE"
	QuadrantEliminate Quadrant = "ELIMINATE"
)

var Quadrants = []Quadrant{QuadrantDoNow, QuadrantSchedule, QuadrantDelegate, QuadrantEliminate}

// Classify maps urgency and importance to a quadrant.
func Classify(urgent, important bool) Quadrant {
	switch {
	case urgent && important:
		return QuadrantDoNow
	case important:
		return QuadrantSchedule
	case urgent:
		return QuadrantDelegate
	default:
		return QuadrantEliminate
	}
}

// Flags returns the canonical urgent/important pair of the quadrant.
func (q Quadrant) Flags() (urgent, important bool) {
	switch q {
	case QuadrantDoNow:
		return true, true
	case QuadrantSchedule:
		return false, true
	case QuadrantDelegate:
		return true, false
	default:
		return false, false
	}
}

func (q Quadrant) Valid() bool {
	for _, known := range Quadrants {
		if q == known {
			return true
		}
	}
	return false
}

// ParseQuadrant accepts any letter case, e.g. "do_now".
func ParseQuadrant(s string) (Quadrant, bool) {
	q := Quadrant(strings.ToUpper(strings.TrimSpace(s)))
	return q, q.Valid()
}
