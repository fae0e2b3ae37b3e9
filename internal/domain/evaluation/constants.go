package evaluation

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusReviewed  = "reviewed"
	StatusApproved  = "approved"
	StatusShared    = "shared"

	RatingMin = 1.0
	RatingMax = 5.0
)

// SubmittedStatuses are the states that contribute to aggregation.
var SubmittedStatuses = []string{StatusSubmitted, StatusReviewed, StatusApproved, StatusShared}

// reviewOrder drives the forward-only reviewer workflow after submission.
var reviewOrder = map[string]int{
	StatusDraft:     0,
	StatusSubmitted: 1,
	StatusReviewed:  2,
	StatusApproved:  3,
	StatusShared:    4,
}

func CanAdvanceReview(from, to string) bool {
	fromRank, ok := reviewOrder[from]
	if !ok {
		return false
	}
	toRank, ok := reviewOrder[to]
	if !ok {
		return false
	}
	return fromRank >= 1 && toRank == fromRank+1
}

func ValidRating(rating float64) bool {
	return rating >= RatingMin && rating <= RatingMax
}
