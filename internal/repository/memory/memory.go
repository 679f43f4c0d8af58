// Package memory holds in-memory repository implementations. They enforce
// the same uniqueness semantics as the Postgres schema and are safe for
// concurrent use, which makes them suitable for deterministic tests,
// including race tests around reciprocal likes.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/google/uuid"
)

type pairAction struct {
	actorID  int
	targetID int
	action   domain.Action
}

// InteractionStore implements repository.InteractionRepository.
type InteractionStore struct {
	mu     sync.Mutex
	nextID int
	rows   map[pairAction]*domain.Interaction

	// Err, when set, is returned by every method to simulate an outage.
	Err error
}

func NewInteractionStore() *InteractionStore {
	return &InteractionStore{rows: make(map[pairAction]*domain.Interaction)}
}

func (s *InteractionStore) InsertLike(ctx context.Context, interaction *domain.Interaction) error {
	interaction.Action = domain.ActionLike
	return s.insertUnique(interaction)
}

func (s *InteractionStore) InsertBlock(ctx context.Context, interaction *domain.Interaction) error {
	interaction.Action = domain.ActionBlock
	return s.insertUnique(interaction)
}

func (s *InteractionStore) insertUnique(interaction *domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	key := pairAction{interaction.ActorID, interaction.TargetID, interaction.Action}
	if _, exists := s.rows[key]; exists {
		return domain.ErrDuplicate
	}

	s.nextID++
	interaction.ID = s.nextID
	interaction.CreatedAt = time.Now()
	interaction.UpdatedAt = interaction.CreatedAt
	stored := *interaction
	s.rows[key] = &stored
	return nil
}

func (s *InteractionStore) UpsertPass(ctx context.Context, interaction *domain.Interaction) error {
	interaction.Action = domain.ActionPass

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	key := pairAction{interaction.ActorID, interaction.TargetID, domain.ActionPass}
	now := time.Now()
	if existing, ok := s.rows[key]; ok {
		existing.CreatedAt = now
		existing.UpdatedAt = now
		*interaction = *existing
		return nil
	}

	s.nextID++
	interaction.ID = s.nextID
	interaction.CreatedAt = now
	interaction.UpdatedAt = now
	stored := *interaction
	s.rows[key] = &stored
	return nil
}

func (s *InteractionStore) DeleteBlock(ctx context.Context, actorID, targetID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.rows, pairAction{actorID, targetID, domain.ActionBlock})
	return nil
}

func (s *InteractionStore) HasLike(ctx context.Context, actorID, targetID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.rows[pairAction{actorID, targetID, domain.ActionLike}]
	return ok, nil
}

func (s *InteractionStore) BlockedUserIDs(ctx context.Context, userID int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	var ids []int
	for key := range s.rows {
		if key.action != domain.ActionBlock {
			continue
		}
		if key.actorID == userID {
			ids = append(ids, key.targetID)
		} else if key.targetID == userID {
			ids = append(ids, key.actorID)
		}
	}
	return ids, nil
}

func (s *InteractionStore) EvaluatedUserIDs(ctx context.Context, userID int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	seen := make(map[int]struct{})
	for key := range s.rows {
		if key.actorID == userID && (key.action == domain.ActionLike || key.action == domain.ActionPass) {
			seen[key.targetID] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *InteractionStore) PendingLikes(ctx context.Context, userID, limit, offset int) ([]*domain.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	var pending []*domain.Interaction
	for key, row := range s.rows {
		if key.action != domain.ActionLike || key.targetID != userID {
			continue
		}
		if _, reciprocated := s.rows[pairAction{userID, key.actorID, domain.ActionLike}]; reciprocated {
			continue
		}
		if s.blockedLocked(userID, key.actorID) {
			continue
		}
		copied := *row
		pending = append(pending, &copied)
	}

	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID > pending[j].ID
		}
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})

	if offset >= len(pending) {
		return nil, nil
	}
	pending = pending[offset:]
	if limit < len(pending) {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *InteractionStore) blockedLocked(a, b int) bool {
	if _, ok := s.rows[pairAction{a, b, domain.ActionBlock}]; ok {
		return true
	}
	_, ok := s.rows[pairAction{b, a, domain.ActionBlock}]
	return ok
}

// Count returns the number of stored rows, for test assertions.
func (s *InteractionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Get returns the stored row for a pair+action, for test assertions.
func (s *InteractionStore) Get(actorID, targetID int, action domain.Action) (*domain.Interaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[pairAction{actorID, targetID, action}]
	if !ok {
		return nil, false
	}
	copied := *row
	return &copied, true
}

// MatchStore implements repository.MatchRepository.
type MatchStore struct {
	mu     sync.Mutex
	nextID int
	rows   map[[2]int]*domain.Match
}

func NewMatchStore() *MatchStore {
	return &MatchStore{rows: make(map[[2]int]*domain.Match)}
}

func pairKey(user1ID, user2ID int) [2]int {
	if user1ID > user2ID {
		user1ID, user2ID = user2ID, user1ID
	}
	return [2]int{user1ID, user2ID}
}

func (s *MatchStore) Create(ctx context.Context, match *domain.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(match.User1ID, match.User2ID)
	if _, exists := s.rows[key]; exists {
		return domain.ErrDuplicate
	}

	s.nextID++
	match.ID = s.nextID
	match.User1ID, match.User2ID = key[0], key[1]
	match.CreatedAt = time.Now()
	stored := *match
	s.rows[key] = &stored
	return nil
}

func (s *MatchStore) GetByUsers(ctx context.Context, user1ID, user2ID int) (*domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[pairKey(user1ID, user2ID)]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	copied := *row
	return &copied, nil
}

func (s *MatchStore) GetActiveMatches(ctx context.Context, userID int) ([]*domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []*domain.Match
	for _, row := range s.rows {
		if row.IsActive && row.HasUser(userID) {
			copied := *row
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	return matches, nil
}

func (s *MatchStore) Deactivate(ctx context.Context, user1ID, user2ID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.rows[pairKey(user1ID, user2ID)]; ok {
		row.IsActive = false
	}
	return nil
}

// Count returns the number of stored matches, for test assertions.
func (s *MatchStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// ProfileStore implements repository.ProfileRepository.
type ProfileStore struct {
	mu       sync.Mutex
	profiles map[int]*domain.Profile
	prefs    map[int]*domain.Preference
	cities   map[int]*domain.City

	// Err, when set, is returned by lookups to simulate a store outage.
	Err error
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[int]*domain.Profile),
		prefs:    make(map[int]*domain.Preference),
		cities:   make(map[int]*domain.City),
	}
}

func (s *ProfileStore) Put(profile *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
}

func (s *ProfileStore) PutPreference(pref *domain.Preference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[pref.UserID] = pref
}

func (s *ProfileStore) PutCity(city *domain.City) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cities[city.ID] = city
}

func (s *ProfileStore) GetByUserID(ctx context.Context, userID int) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (s *ProfileStore) Update(ctx context.Context, profile *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.profiles[profile.UserID]; !ok {
		return domain.ErrProfileNotFound
	}
	copied := *profile
	copied.UpdatedAt = time.Now()
	s.profiles[profile.UserID] = &copied
	return nil
}

func (s *ProfileStore) GetPreferences(ctx context.Context, userID int) (*domain.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	pref, ok := s.prefs[userID]
	if !ok {
		return nil, nil
	}
	copied := *pref
	return &copied, nil
}

func (s *ProfileStore) ResolveCity(ctx context.Context, cityID int) (*domain.City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	city, ok := s.cities[cityID]
	if !ok {
		return nil, nil
	}
	copied := *city
	return &copied, nil
}

// VentureStore implements repository.VentureRepository.
type VentureStore struct {
	mu         sync.Mutex
	nextID     int
	ventures   map[int]*domain.Venture // keyed by venture id
	embeddings map[int]*embeddingRow   // keyed by venture id

	// TotalProfiles feeds the banner aggregate's location count.
	TotalProfiles int
}

type embeddingRow struct {
	ref    domain.EmbeddingRef
	userID int
	vector []float32
}

func NewVentureStore() *VentureStore {
	return &VentureStore{
		ventures:   make(map[int]*domain.Venture),
		embeddings: make(map[int]*embeddingRow),
	}
}

func (s *VentureStore) Create(ctx context.Context, venture *domain.Venture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	venture.ID = s.nextID
	if venture.CreatedAt.IsZero() {
		venture.CreatedAt = time.Now()
	}
	stored := *venture
	s.ventures[venture.ID] = &stored
	return nil
}

func (s *VentureStore) GetCurrentByUserID(ctx context.Context, userID int) (*domain.Venture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current *domain.Venture
	for _, v := range s.ventures {
		if v.UserID != userID {
			continue
		}
		if current == nil || v.CreatedAt.After(current.CreatedAt) || (v.CreatedAt.Equal(current.CreatedAt) && v.ID > current.ID) {
			current = v
		}
	}
	if current == nil {
		return nil, domain.ErrVentureNotFound
	}
	copied := *current
	return &copied, nil
}

func (s *VentureStore) GetEmbeddingRef(ctx context.Context, ventureID int) (*domain.EmbeddingRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.embeddings[ventureID]
	if !ok {
		return nil, nil
	}
	ref := row.ref
	return &ref, nil
}

func (s *VentureStore) InsertEmbedding(ctx context.Context, id uuid.UUID, ventureID, userID int, model, version string, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.embeddings[ventureID] = &embeddingRow{
		ref:    domain.EmbeddingRef{ID: id, Model: model, Version: version},
		userID: userID,
		vector: vector,
	}
	return nil
}

func (s *VentureStore) BannerCounts(ctx context.Context, locationID *int, model, version string) (domain.BannerCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	related := 0
	for _, row := range s.embeddings {
		if row.ref.Model == model && row.ref.Version == version {
			related++
		}
	}
	return domain.BannerCounts{TotalProfiles: s.TotalProfiles, RelatedTopics: related}, nil
}

// VectorSourceStub implements repository.VectorSource with a fixed ranked
// list.
type VectorSourceStub struct {
	Candidates []domain.CandidateRaw
	Err        error
}

func (s *VectorSourceStub) KNN(ctx context.Context, embeddingID uuid.UUID, model, version string, limit, probes int) ([]domain.CandidateRaw, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit < len(s.Candidates) {
		return s.Candidates[:limit], nil
	}
	return s.Candidates, nil
}
