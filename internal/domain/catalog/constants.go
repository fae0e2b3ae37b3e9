package catalog

const (
	CategoryTechnical     = "technical"
	CategoryLeadership    = "leadership"
	CategoryCommunication = "communication"
	CategoryCollaboration = "collaboration"
	CategoryDelivery      = "delivery"
	CategoryGrowth        = "growth"
)

var Categories = []string{
	CategoryTechnical,
	CategoryLeadership,
	CategoryCommunication,
	CategoryCollaboration,
	CategoryDelivery,
	CategoryGrowth,
}

func ValidCategory(category string) bool {
	for _, candidate := range Categories {
		if candidate == category {
			return true
		}
	}
	return false
}
