package aggregate

import (
	"context"

	"engage/internal/domain/catalog"
)

type StoreAPI interface {
	LoadSamples(ctx context.Context, orgID, cycleID, evaluateeID string) ([]RatingSample, error)
	ListEvaluatees(ctx context.Context, orgID, cycleID string) ([]string, error)
	TypeWeights(ctx context.Context, orgID string) (map[string]float64, error)
}

// CatalogReader supplies the active competencies so results cover the full
// catalog even when some were never rated. Satisfied by *catalog.Service.
type CatalogReader interface {
	List(ctx context.Context, orgID, category string, activeOnly bool) ([]catalog.Competency, error)
}
