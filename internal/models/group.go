package models

import "time"

// DefaultGroupName is the reserved fallback group assigned to campers
// and events without an explicit group. It always exists and cannot be
// deleted.
const DefaultGroupName = "none"

// DefaultGroupColor is the color the default group is seeded with
const DefaultGroupColor = "blue"

// NoGroupColor is the projection color for records without a group
const NoGroupColor = "gray"

// CampGroup is a named, color-tagged cohort referenced by campers and
// events for display grouping
type CampGroup struct {
	ID        int64
	Name      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDefault reports whether this is the reserved fallback group
func (g CampGroup) IsDefault() bool {
	return g.Name == DefaultGroupName
}
