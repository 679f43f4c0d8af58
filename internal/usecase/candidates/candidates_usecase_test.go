package candidates

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cofoundry-app/cofoundry-backend/internal/config"
	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	uc           *UseCase
	interactions *memory.InteractionStore
	profiles     *memory.ProfileStore
	ventures     *memory.VentureStore
	vector       *memory.VectorSourceStub
}

func newFixture() *fixture {
	f := &fixture{
		interactions: memory.NewInteractionStore(),
		profiles:     memory.NewProfileStore(),
		ventures:     memory.NewVentureStore(),
		vector:       &memory.VectorSourceStub{},
	}
	cfg := config.MatchingConfig{
		OverfetchWindow:       100,
		EnrichmentConcurrency: 4,
		IvfflatProbes:         10,
		VectorTimeout:         time.Second,
	}
	f.uc = NewUseCase(f.ventures, f.profiles, f.interactions, f.vector, cfg, zerolog.Nop())
	return f
}

// seedUser gives userID a profile, a venture, and an embedding.
func (f *fixture) seedUser(t *testing.T, userID int) {
	t.Helper()
	f.profiles.Put(&domain.Profile{
		ID:          userID,
		UserID:      userID,
		DisplayName: fmt.Sprintf("user-%d", userID),
	})
	venture := &domain.Venture{UserID: userID, Title: "title", Pitch: "pitch", CreatedAt: time.Now()}
	require.NoError(t, f.ventures.Create(context.Background(), venture))
	require.NoError(t, f.ventures.InsertEmbedding(
		context.Background(), uuid.New(), venture.ID, userID, "text-embedding-004", "004", []float32{0.1, 0.2}))
}

func rawCandidate(userID int, score float64) domain.CandidateRaw {
	return domain.CandidateRaw{UserID: userID, RawScore: score}
}

func candidateIDs(items []*domain.EnrichedCandidate) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.UserID)
	}
	return ids
}

func TestFindCandidatesRequiresVenture(t *testing.T) {
	f := newFixture()

	_, err := f.uc.FindCandidates(context.Background(), 1, 10)
	assert.ErrorIs(t, err, domain.ErrVentureNotFound)
}

func TestFindCandidatesRequiresEmbedding(t *testing.T) {
	f := newFixture()
	venture := &domain.Venture{UserID: 1, Title: "t", Pitch: "p", CreatedAt: time.Now()}
	require.NoError(t, f.ventures.Create(context.Background(), venture))

	_, err := f.uc.FindCandidates(context.Background(), 1, 10)

	var depErr *domain.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "embedding resolver", depErr.Dependency)
}

func TestFindCandidatesPreservesScoreOrder(t *testing.T) {
	f := newFixture()
	for _, id := range []int{1, 2, 3, 4} {
		f.seedUser(t, id)
	}
	f.vector.Candidates = []domain.CandidateRaw{
		rawCandidate(3, 0.91),
		rawCandidate(2, 0.85),
		rawCandidate(4, 0.12),
	}

	feed, err := f.uc.FindCandidates(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 2, 4}, candidateIDs(feed.Items))
	require.NotNil(t, feed.BaseVenture)
	assert.Equal(t, 1, feed.BaseVenture.UserID)
	for i := 1; i < len(feed.Items); i++ {
		assert.GreaterOrEqual(t, feed.Items[i-1].RawScore, feed.Items[i].RawScore)
	}
}

func TestFindCandidatesExcludesSelfAndDuplicates(t *testing.T) {
	f := newFixture()
	f.seedUser(t, 1)
	f.seedUser(t, 2)
	f.vector.Candidates = []domain.CandidateRaw{
		rawCandidate(1, 0.99), // self
		rawCandidate(2, 0.90),
		rawCandidate(2, 0.89), // duplicate
	}

	feed, err := f.uc.FindCandidates(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, candidateIDs(feed.Items))
}

func TestFindCandidatesHidesBlockedPairsBothDirections(t *testing.T) {
	f := newFixture()
	for _, id := range []int{1, 2, 3} {
		f.seedUser(t, id)
	}
	// 1 blocked 2; 3 blocked 1. Neither may appear for user 1.
	require.NoError(t, f.interactions.InsertBlock(context.Background(), &domain.Interaction{ActorID: 1, TargetID: 2}))
	require.NoError(t, f.interactions.InsertBlock(context.Background(), &domain.Interaction{ActorID: 3, TargetID: 1}))

	f.vector.Candidates = []domain.CandidateRaw{
		rawCandidate(2, 0.95),
		rawCandidate(3, 0.94),
	}

	feed, err := f.uc.FindCandidates(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
}

func TestUnblockRestoresVisibility(t *testing.T) {
	f := newFixture()
	f.seedUser(t, 1)
	f.seedUser(t, 2)
	require.NoError(t, f.interactions.InsertBlock(context.Background(), &domain.Interaction{ActorID: 1, TargetID: 2}))
	f.vector.Candidates = []domain.CandidateRaw{rawCandidate(2, 0.9)}

	feed, err := f.uc.FindCandidates(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)

	require.NoError(t, f.interactions.DeleteBlock(context.Background(), 1, 2))

	feed, err = f.uc.FindCandidates(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, candidateIDs(feed.Items))
}

func TestFindCandidatesTruncatesAfterFiltering(t *testing.T) {
	f := newFixture()
	for _, id := range []int{1, 2, 3, 4} {
		f.seedUser(t, id)
	}
	// 2 is excluded (already passed); the page must still fill to limit from
	// the over-fetch window instead of coming back short.
	require.NoError(t, f.interactions.UpsertPass(context.Background(), &domain.Interaction{ActorID: 1, TargetID: 2}))
	f.vector.Candidates = []domain.CandidateRaw{
		rawCandidate(2, 0.97),
		rawCandidate(3, 0.96),
		rawCandidate(4, 0.95),
	}

	feed, err := f.uc.FindCandidates(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, candidateIDs(feed.Items))
}

func TestFindCandidatesDropsUnresolvableProfiles(t *testing.T) {
	f := newFixture()
	f.seedUser(t, 1)
	f.seedUser(t, 2)
	// 3 is in the vector index but has no profile row.
	f.vector.Candidates = []domain.CandidateRaw{
		rawCandidate(3, 0.99),
		rawCandidate(2, 0.80),
	}

	feed, err := f.uc.FindCandidates(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, candidateIDs(feed.Items))
	for _, item := range feed.Items {
		assert.NotNil(t, item.Profile, "partially enriched records must not leak")
	}
}

func TestFindCandidatesSurfacesSystemicEnrichmentOutage(t *testing.T) {
	f := newFixture()
	f.seedUser(t, 1)
	f.seedUser(t, 2)
	f.vector.Candidates = []domain.CandidateRaw{rawCandidate(2, 0.9)}
	f.profiles.Err = assert.AnError

	_, err := f.uc.FindCandidates(context.Background(), 1, 10)

	var depErr *domain.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "profile store", depErr.Dependency)
}

// hangingRefStore blocks embedding-ref lookups until the context expires.
type hangingRefStore struct {
	*memory.VentureStore
}

func (s *hangingRefStore) GetEmbeddingRef(ctx context.Context, ventureID int) (*domain.EmbeddingRef, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestFindCandidatesBoundsEmbeddingLookup(t *testing.T) {
	f := newFixture()
	f.seedUser(t, 1)

	cfg := config.MatchingConfig{
		OverfetchWindow:       100,
		EnrichmentConcurrency: 4,
		IvfflatProbes:         10,
		VectorTimeout:         20 * time.Millisecond,
	}
	uc := NewUseCase(&hangingRefStore{f.ventures}, f.profiles, f.interactions, f.vector, cfg, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := uc.FindCandidates(context.Background(), 1, 10)
		done <- err
	}()

	select {
	case err := <-done:
		var depErr *domain.DependencyError
		require.ErrorAs(t, err, &depErr)
		assert.Equal(t, "embedding resolver", depErr.Dependency)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("embedding lookup was not bounded by the configured timeout")
	}
}

// slowVectorSource answers only after its delay, honoring cancellation.
type slowVectorSource struct {
	delay time.Duration
}

func (s *slowVectorSource) KNN(ctx context.Context, embeddingID uuid.UUID, model, version string, limit, probes int) ([]domain.CandidateRaw, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.delay):
		return nil, nil
	}
}

func TestFindCandidatesBoundsVectorQuery(t *testing.T) {
	f := newFixture()
	f.seedUser(t, 1)

	cfg := config.MatchingConfig{
		OverfetchWindow:       100,
		EnrichmentConcurrency: 4,
		IvfflatProbes:         10,
		VectorTimeout:         20 * time.Millisecond,
	}
	uc := NewUseCase(f.ventures, f.profiles, f.interactions, &slowVectorSource{delay: time.Second}, cfg, zerolog.Nop())

	start := time.Now()
	_, err := uc.FindCandidates(context.Background(), 1, 10)

	var depErr *domain.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "vector source", depErr.Dependency)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "vector query must fail at the timeout, not the stub delay")
}

func TestFindCandidatesSurfacesVectorSourceFailure(t *testing.T) {
	f := newFixture()
	f.seedUser(t, 1)
	f.vector.Err = assert.AnError

	_, err := f.uc.FindCandidates(context.Background(), 1, 10)

	var depErr *domain.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "vector source", depErr.Dependency)
}

func TestFindCandidatesResolvesCityDisplayFields(t *testing.T) {
	f := newFixture()
	f.seedUser(t, 1)

	locationID := 44
	f.profiles.PutCity(&domain.City{ID: locationID, CityName: "Lisbon", CountryName: "Portugal"})
	f.profiles.Put(&domain.Profile{ID: 2, UserID: 2, DisplayName: "user-2", LocationID: &locationID})
	f.vector.Candidates = []domain.CandidateRaw{rawCandidate(2, 0.7)}

	feed, err := f.uc.FindCandidates(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	require.NotNil(t, feed.Items[0].CityName)
	assert.Equal(t, "Lisbon", *feed.Items[0].CityName)
	require.NotNil(t, feed.Items[0].CountryName)
	assert.Equal(t, "Portugal", *feed.Items[0].CountryName)
}

func TestPendingRequestsPaginationIsStable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedUser(t, 1)
	for _, id := range []int{2, 3, 4} {
		f.seedUser(t, id)
		require.NoError(t, f.interactions.InsertLike(ctx, &domain.Interaction{ActorID: id, TargetID: 1}))
		time.Sleep(2 * time.Millisecond)
	}

	first, err := f.uc.FindPendingRequests(ctx, 1, 1, 0)
	require.NoError(t, err)
	second, err := f.uc.FindPendingRequests(ctx, 1, 1, 1)
	require.NoError(t, err)
	both, err := f.uc.FindPendingRequests(ctx, 1, 2, 0)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	require.Len(t, both, 2)
	assert.NotEqual(t, first[0].UserID, second[0].UserID)
	assert.Equal(t, []int{first[0].UserID, second[0].UserID}, candidateIDs(both))

	// Most recent like first.
	assert.Equal(t, 4, first[0].UserID)
	require.NotNil(t, first[0].LikedAt)
}

func TestPendingRequestsExcludeReciprocatedLikes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedUser(t, 1)
	f.seedUser(t, 2)
	f.seedUser(t, 3)
	require.NoError(t, f.interactions.InsertLike(ctx, &domain.Interaction{ActorID: 2, TargetID: 1}))
	require.NoError(t, f.interactions.InsertLike(ctx, &domain.Interaction{ActorID: 3, TargetID: 1}))
	// 1 already liked 2 back, so only 3 is still pending.
	require.NoError(t, f.interactions.InsertLike(ctx, &domain.Interaction{ActorID: 1, TargetID: 2}))

	pending, err := f.uc.FindPendingRequests(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, candidateIDs(pending))
}
