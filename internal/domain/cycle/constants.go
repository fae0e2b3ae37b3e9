package cycle

const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"

	TypeSelf      = "self"
	TypePeer      = "peer"
	TypeManager   = "manager"
	TypeUpward    = "upward"
	TypeSkipLevel = "skip_level"
	Type360       = "360"
)

var Types = []string{TypeSelf, TypePeer, TypeManager, TypeUpward, TypeSkipLevel, Type360}

func ValidType(cycleType string) bool {
	for _, candidate := range Types {
		if candidate == cycleType {
			return true
		}
	}
	return false
}
