package content

import (
	"fmt"
	"time"
	"unicode"
)

const (
	MinRequiredLevel = 1
	MaxRequiredLevel = 5

	maxIDLength = 128
)

// Item is a payload guarded by a minimum clearance level.
type Item struct {
	ID            string    `json:"id"`
	Payload       string    `json:"payload"`
	RequiredLevel int       `json:"required_level"`
	Created       time.Time `json:"created"`
	Seq           int       `json:"seq"` // insertion position, kept when an item is replaced
}

// Summary is the metadata of an Item that may be listed without revealing it.
type Summary struct {
	ID            string `json:"id"`
	RequiredLevel int    `json:"required_level"`
}

func (i Item) Summary() Summary {
	return Summary{ID: i.ID, RequiredLevel: i.RequiredLevel}
}

// VisibleTo reports whether a caller with clearance may see the item.
func (i Item) VisibleTo(clearance int) bool {
	return i.RequiredLevel <= clearance
}

// Validate rejects items that could not have been published.
func (i Item) Validate() error {
	if err := ValidateID(i.ID); err != nil {
		return err
	}
	if i.RequiredLevel < MinRequiredLevel || i.RequiredLevel > MaxRequiredLevel {
		return fmt.Errorf("required level %d out of range for %q", i.RequiredLevel, i.ID)
	}
	return nil
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

// ClampLevel forces level into [MinRequiredLevel, MaxRequiredLevel].
func ClampLevel(level int) int {
	if level < MinRequiredLevel {
		return MinRequiredLevel
	}
	if level > MaxRequiredLevel {
		return MaxRequiredLevel
	}
	return level
}
