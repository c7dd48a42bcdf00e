package models

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory rejects an audience category outside the fixed set.
var ErrUnknownCategory = errors.New("unknown alert category")

// Recipient is a directory entry eligible to receive pages. The directory
// is owned by the identity service; this view is read-only here.
type Recipient struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	ChatID      *int64 `json:"chat_id"`
	Active      bool   `json:"active"`
	FunctionTag string `json:"function_tag"`
}

// Reachable reports whether the recipient has a chat channel and can be paged.
func (r Recipient) Reachable() bool {
	return r.ChatID != nil
}

// Category selects the audience of an alert.
type Category string

const (
	// CategoryAll pages every active recipient.
	CategoryAll Category = "all"
	// CategoryDrivers pages active recipients holding the driver function tag.
	CategoryDrivers Category = "drivers"
)

// ParseCategory validates a caller-supplied category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryAll, CategoryDrivers:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// FunctionTag returns the directory function filter for the category;
// empty means no filter (everyone active).
func (c Category) FunctionTag() string {
	if c == CategoryDrivers {
		return "driver"
	}
	return ""
}

// Label returns the human-readable audience name used in page texts.
func (c Category) Label() string {
	switch c {
	case CategoryDrivers:
		return "Drivers"
	default:
		return "All members"
	}
}
