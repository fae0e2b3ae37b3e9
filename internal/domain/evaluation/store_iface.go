package evaluation

import (
	"context"
	"time"
)

type StoreAPI interface {
	GetEvaluation(ctx context.Context, orgID, evaluationID string) (Evaluation, error)
	ListForEvaluator(ctx context.Context, cycleID, evaluatorID string) ([]Evaluation, error)
	SaveDraft(ctx context.Context, evaluationID string, fields DraftFields) error
	Submit(ctx context.Context, evaluationID string, fields DraftFields, submittedAt time.Time) error
	AdvanceReviewStatus(ctx context.Context, orgID, evaluationID, from, to string) error
}

// CycleStatusReader is the slice of the cycle domain the submit gate needs.
type CycleStatusReader interface {
	CycleStatus(ctx context.Context, orgID, cycleID string) (string, error)
}
