package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"engage/internal/domain/cycle"
)

type settingsRow struct {
	value []byte
	err   error
}

func (r settingsRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.value
	return nil
}

// fakeSettingsDB answers the single org_settings lookup TypeWeights makes.
type fakeSettingsDB struct {
	row settingsRow
}

func (f fakeSettingsDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (f fakeSettingsDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return f.row
}

func (f fakeSettingsDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected Exec")
}

func TestTypeWeightsDefaultsWhenUnset(t *testing.T) {
	store := NewStore(fakeSettingsDB{row: settingsRow{err: pgx.ErrNoRows}})

	weights, err := store.TypeWeights(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("missing override row errored: %v", err)
	}
	if weights[cycle.TypeSelf] != DefaultTypeWeights()[cycle.TypeSelf] {
		t.Fatalf("expected default weights, got %v", weights)
	}
}

func TestTypeWeightsPropagatesQueryFailure(t *testing.T) {
	dbErr := errors.New("connection refused")
	store := NewStore(fakeSettingsDB{row: settingsRow{err: dbErr}})

	if _, err := store.TypeWeights(context.Background(), "org-1"); !errors.Is(err, dbErr) {
		t.Fatalf("expected the query error back, got %v", err)
	}
}

func TestTypeWeightsMergesOverride(t *testing.T) {
	store := NewStore(fakeSettingsDB{row: settingsRow{value: []byte(`{"peer": 2.0}`)}})

	weights, err := store.TypeWeights(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("override lookup errored: %v", err)
	}
	if weights[cycle.TypePeer] != 2.0 {
		t.Fatalf("expected peer override 2.0, got %f", weights[cycle.TypePeer])
	}
	if weights[cycle.TypeManager] != DefaultTypeWeights()[cycle.TypeManager] {
		t.Fatalf("expected untouched manager default, got %f", weights[cycle.TypeManager])
	}
}

func TestTypeWeightsRejectsMalformedOverride(t *testing.T) {
	store := NewStore(fakeSettingsDB{row: settingsRow{value: []byte(`not json`)}})

	if _, err := store.TypeWeights(context.Background(), "org-1"); err == nil {
		t.Fatal("expected malformed override to error")
	}
}
