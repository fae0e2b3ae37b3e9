package cycle

import "time"

// ValidateDateRange enforces startDate strictly before endDate.
func ValidateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return ErrInvalidDateRange
	}
	return nil
}

// Overlaps reports whether two inclusive date ranges share any day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// CanTransition encodes the forward-only lifecycle. Archive doubles as cancel
// and is reachable from every non-archived status.
func CanTransition(from, to string) bool {
	switch to {
	case StatusActive:
		return from == StatusDraft
	case StatusCompleted:
		return from == StatusActive
	case StatusArchived:
		return from != StatusArchived
	default:
		return false
	}
}

// Components expands a cycle type into the evaluation relationship types it
// requires. A 360 cycle includes every component.
func Components(cycleType string) []string {
	if cycleType == Type360 {
		return []string{TypeSelf, TypeManager, TypeUpward, TypePeer, TypeSkipLevel}
	}
	return []string{cycleType}
}

// HasComponent reports whether the cycle type enables a given relationship.
func HasComponent(cycleType, component string) bool {
	for _, candidate := range Components(cycleType) {
		if candidate == component {
			return true
		}
	}
	return false
}
