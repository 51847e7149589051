// Package flow tracks the aligned districts, the activation events and the
// flow state nodes that authenticated users may inspect.
package flow

import (
	"fmt"
	"math"
	"unicode"
)

// ResonanceEvent is the activation event reported by a successful resonance.
const ResonanceEvent = "LUX_TRUTH_04"

const (
	StatusActive  = "active"
	StatusPending = "pending"
	StatusSyncing = "syncing"

	maxIDLength    = 128
	maxStateLength = 256
)

// District is a named region with an alignment between 0 and 1.
type District struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Alignment float64 `json:"alignment"`
	Status    string  `json:"status"`
}

// Percent is the alignment as a whole percentage.
func (d District) Percent() int {
	return Percent(d.Alignment)
}

func (d District) Validate() error {
	if err := ValidateID(d.ID); err != nil {
		return err
	}
	if d.Name == "" {
		return fmt.Errorf("district %q: name is required", d.ID)
	}
	if math.IsNaN(d.Alignment) || d.Alignment < 0 || d.Alignment > 1 {
		return fmt.Errorf("district %q: alignment %v must be between 0 and 1", d.ID, d.Alignment)
	}
	if d.Status == "" {
		return fmt.Errorf("district %q: status is required", d.ID)
	}
	return nil
}

// Event is a named milestone with a status such as pending or active.
type Event struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (e Event) Validate() error {
	if err := ValidateID(e.ID); err != nil {
		return err
	}
	if e.Name == "" {
		return fmt.Errorf("event %q: name is required", e.ID)
	}
	if e.Status == "" {
		return fmt.Errorf("event %q: status is required", e.ID)
	}
	return nil
}

// Percent converts an alignment fraction to a rounded whole percentage.
func Percent(alignment float64) int {
	return int(math.Round(alignment * 100))
}

// ValidateID checks that id is usable as a URL path segment and a command argument.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("id must be at most %d characters", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) || r == '/' {
			return fmt.Errorf("id %q must not contain whitespace, control characters or '/'", id)
		}
	}
	return nil
}
