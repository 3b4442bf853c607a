package postgres_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/repository/postgres"
	"github.com/fencetrack/fencetrack/internal/testutil"
)

func TestEventRepository_UpsertByKeys(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEventRepository(testDB.DB)
	ctx := context.Background()

	comp := testutil.NewCompetitionBuilder().Build(t, testDB.DB)
	event := testutil.NewEventBuilder().WithKeys("me", "senior").Build(t, testDB.DB, comp)

	// Upserting the same key triple updates metadata instead of inserting.
	dup := &domain.Event{
		CompetitionID: comp.ID,
		EventKey:      "me",
		SubEventKey:   "senior",
		Name:          "Men's Epee",
		Weapon:        domain.WeaponEpee,
		Gender:        domain.GenderMen,
		Context:       domain.BoutContextIndividual,
	}
	require.NoError(t, repo.Upsert(ctx, dup))

	got, err := repo.GetByKeys(ctx, comp.ID, "me", "senior")
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, "Men's Epee", got.Name)

	events, err := repo.ListByCompetition(ctx, comp.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventRepository_UpdateRecordRevisionGuard(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEventRepository(testDB.DB)
	ctx := context.Background()

	comp := testutil.NewCompetitionBuilder().Build(t, testDB.DB)
	event := testutil.NewEventBuilder().Build(t, testDB.DB, comp)

	record, err := json.Marshal(&domain.EventRecord{
		FinalRankings: []domain.RankingEntry{{Rank: 1, Player: domain.Mention{Name: "Kim"}}},
	})
	require.NoError(t, err)

	event.RawData = record
	event.Status = domain.EventStatusPartial
	require.NoError(t, repo.UpdateRecord(ctx, event, 0))
	assert.Equal(t, 1, event.Revision)

	// A writer still holding the old revision must fail, not overwrite.
	stale := *event
	err = repo.UpdateRecord(ctx, &stale, 0)
	assert.ErrorIs(t, err, domain.ErrRevisionConflict)

	// The current revision goes through.
	require.NoError(t, repo.UpdateRecord(ctx, event, 1))
	assert.Equal(t, 2, event.Revision)

	got, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Revision)
	assert.Equal(t, domain.EventStatusPartial, got.Status)

	var decoded domain.EventRecord
	require.NoError(t, json.Unmarshal(got.RawData, &decoded))
	assert.Len(t, decoded.FinalRankings, 1)
}

func TestEventRepository_GetByKeysNotFound(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEventRepository(testDB.DB)

	comp := testutil.NewCompetitionBuilder().Build(t, testDB.DB)
	_, err := repo.GetByKeys(context.Background(), comp.ID, "missing", "missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}
