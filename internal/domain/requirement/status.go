package requirement

import "strings"

// Status is the assignment state of a teaching requirement. It is derived
// from the assigned teacher identifiers and never set directly.
type Status string

const (
	StatusUnassigned        Status = "UNASSIGNED"
	StatusPartiallyAssigned Status = "PARTIALLY_ASSIGNED"
	// StatusFullyAssigned is never derived: requirements carry no target
	// headcount to compare against.
	StatusFullyAssigned Status = "FULLY_ASSIGNED"
)

func (s Status) DisplayName() string {
	switch s {
	case StatusUnassigned:
		return "Unassigned"
	case StatusPartiallyAssigned:
		return "Partially Assigned"
	case StatusFullyAssigned:
		return "Fully Assigned"
	default:
		return string(s)
	}
}

// ParseStatus accepts the wire name ("PARTIALLY_ASSIGNED") or a relaxed
// form ("partially-assigned", "partially assigned").
func ParseStatus(v string) (Status, bool) {
	norm := strings.ToUpper(strings.TrimSpace(v))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch Status(norm) {
	case StatusUnassigned, StatusPartiallyAssigned, StatusFullyAssigned:
		return Status(norm), true
	}
	return "", false
}

func deriveStatus(assigned []int) Status {
	if len(assigned) == 0 {
		return StatusUnassigned
	}
	return StatusPartiallyAssigned
}
