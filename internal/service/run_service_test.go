package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fencetrack/fencetrack/internal/domain"
	"github.com/fencetrack/fencetrack/internal/repository/postgres"
	"github.com/fencetrack/fencetrack/internal/service"
	"github.com/fencetrack/fencetrack/internal/testutil"
)

// stubFetcher serves canned fragments keyed by compKey/subEventKey and
// records every request it sees.
type stubFetcher struct {
	mu        sync.Mutex
	fragments map[string]*domain.RawFragment
	errs      map[string]error
	requests  []string
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		fragments: map[string]*domain.RawFragment{},
		errs:      map[string]error{},
	}
}

func (f *stubFetcher) FetchEventFragment(_ context.Context, compKey, subEventKey string) (*domain.RawFragment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := compKey + "/" + subEventKey
	f.requests = append(f.requests, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if frag, ok := f.fragments[key]; ok {
		return frag, nil
	}
	return &domain.RawFragment{CompKey: compKey, SubEventKey: subEventKey}, nil
}

func (f *stubFetcher) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func TestRunService_RecollectsGappedEvents(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	uow := postgres.NewUnitOfWork(testDB.DB)
	ingest := service.NewIngestService(uow, repos)

	// An empty pending event inside a completed competition is a gap on
	// every dimension.
	comp := testutil.NewCompetitionBuilder().
		WithKey("nat-2026").
		WithStatus(domain.CompetitionStatusCompleted).
		Build(t, testDB.DB)
	testutil.NewEventBuilder().WithKeys("me", "me").Build(t, testDB.DB, comp)

	fetcher := newStubFetcher()
	fetcher.fragments["nat-2026/me"] = fourBracketFragment()

	runs := service.NewRunService(repos, ingest, fetcher, nil, 2)
	report, err := runs.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Competitions)
	assert.Equal(t, 1, report.EventsProcessed)
	assert.Equal(t, 4, report.BoutsWritten)
	assert.Zero(t, report.StructuralErrors)
	assert.Zero(t, report.TransportFailures)
	assert.Equal(t, 1, fetcher.requestCount())

	// The bracket, rankings, and pools dimensions: pools were never
	// collected, so the event stays on the worklist for pool data.
	require.NotEmpty(t, report.Gaps)
	assert.True(t, report.Gaps[0].Has(domain.GapNoPoolData))
	assert.False(t, report.Gaps[0].Has(domain.GapNoFinalRankings))

	assert.Equal(t, report, runs.LastReport())
}

func TestRunService_TransportFailureIsReportedNotFatal(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	uow := postgres.NewUnitOfWork(testDB.DB)
	ingest := service.NewIngestService(uow, repos)

	comp := testutil.NewCompetitionBuilder().
		WithKey("nat-2026").
		WithStatus(domain.CompetitionStatusCompleted).
		Build(t, testDB.DB)
	testutil.NewEventBuilder().WithKeys("me", "me").Build(t, testDB.DB, comp)
	testutil.NewEventBuilder().WithKeys("we", "we").Build(t, testDB.DB, comp)

	fetcher := newStubFetcher()
	fetcher.errs["nat-2026/me"] = domain.ErrTransportFailure
	fetcher.fragments["nat-2026/we"] = func() *domain.RawFragment {
		frag := fourBracketFragment()
		frag.EventKey = "we"
		frag.EventName = "Women's Epee"
		frag.Gender = "women"
		return frag
	}()

	runs := service.NewRunService(repos, ingest, fetcher, nil, 2)
	report, err := runs.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.EventsProcessed)
	assert.Equal(t, 1, report.TransportFailures)
	// The healthy event still reconciled in the same pass.
	assert.Equal(t, 4, report.BoutsWritten)
}

func TestRunService_CancellationStopsBetweenEvents(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	uow := postgres.NewUnitOfWork(testDB.DB)
	ingest := service.NewIngestService(uow, repos)

	comp := testutil.NewCompetitionBuilder().
		WithKey("nat-2026").
		WithStatus(domain.CompetitionStatusCompleted).
		Build(t, testDB.DB)
	testutil.NewEventBuilder().WithKeys("me", "me").Build(t, testDB.DB, comp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := newStubFetcher()
	runs := service.NewRunService(repos, ingest, fetcher, nil, 1)
	report, err := runs.Run(ctx)
	require.NoError(t, err)

	// Nothing dequeued after cancellation: no event was fetched.
	assert.Zero(t, fetcher.requestCount())
	assert.Zero(t, report.EventsProcessed)
}

func TestRunService_GapsWorklist(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	uow := postgres.NewUnitOfWork(testDB.DB)
	ingest := service.NewIngestService(uow, repos)

	comp := testutil.NewCompetitionBuilder().
		WithKey("nat-2026").
		WithStatus(domain.CompetitionStatusCompleted).
		Build(t, testDB.DB)
	testutil.NewEventBuilder().WithKeys("me", "me").Build(t, testDB.DB, comp)
	testutil.NewEventBuilder().
		WithKeys("sabre", "sabre").
		WithStatus(domain.EventStatusNoResults).
		Build(t, testDB.DB, comp)

	runs := service.NewRunService(repos, ingest, newStubFetcher(), nil, 1)
	gaps, err := runs.Gaps(context.Background())
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, "me", gaps[0].EventKey)
}
