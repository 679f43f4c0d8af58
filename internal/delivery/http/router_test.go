package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cofoundry-app/cofoundry-backend/internal/config"
	"github.com/cofoundry-app/cofoundry-backend/internal/delivery/http/handler"
	"github.com/cofoundry-app/cofoundry-backend/internal/delivery/http/middleware"
	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository/memory"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/banner"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/candidates"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/interaction"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/match"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/profile"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/venture"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type apiFixture struct {
	engine       *gin.Engine
	interactions *memory.InteractionStore
	matches      *memory.MatchStore
	profiles     *memory.ProfileStore
	ventures     *memory.VentureStore
	vector       *memory.VectorSourceStub
}

func newAPIFixture() *apiFixture {
	gin.SetMode(gin.TestMode)
	logger := zerolog.Nop()

	f := &apiFixture{
		interactions: memory.NewInteractionStore(),
		matches:      memory.NewMatchStore(),
		profiles:     memory.NewProfileStore(),
		ventures:     memory.NewVentureStore(),
		vector:       &memory.VectorSourceStub{},
	}

	matchingCfg := config.MatchingConfig{
		OverfetchWindow:       100,
		EnrichmentConcurrency: 4,
		IvfflatProbes:         10,
		VectorTimeout:         time.Second,
	}

	interactionUC := interaction.NewUseCase(f.interactions, f.matches, f.ventures, logger)
	candidatesUC := candidates.NewUseCase(f.ventures, f.profiles, f.interactions, f.vector, matchingCfg, logger)
	bannerUC := banner.NewUseCase(f.ventures, f.profiles, nil, time.Minute, logger)
	profileUC := profile.NewUseCase(f.profiles)
	ventureUC := venture.NewUseCase(f.ventures, nil, logger)
	matchUC := match.NewUseCase(f.matches, f.profiles, logger)

	router := NewRouter(
		handler.NewProfileHandler(profileUC),
		handler.NewVentureHandler(ventureUC),
		handler.NewInteractionHandler(interactionUC),
		handler.NewCandidateHandler(candidatesUC, bannerUC),
		handler.NewMatchHandler(matchUC),
		middleware.NewAuthMiddleware(testSecret),
		logger,
	)
	f.engine = router.Setup()
	return f
}

func (f *apiFixture) seedUser(t *testing.T, userID int) {
	t.Helper()
	f.profiles.Put(&domain.Profile{ID: userID, UserID: userID, DisplayName: "user"})
	v := &domain.Venture{UserID: userID, Title: "title", Pitch: "pitch", CreatedAt: time.Now()}
	require.NoError(t, f.ventures.Create(context.Background(), v))
	require.NoError(t, f.ventures.InsertEmbedding(context.Background(), uuid.New(), v.ID, userID, "text-embedding-004", "004", []float32{0.1}))
}

func signToken(t *testing.T, userID int) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (f *apiFixture) do(t *testing.T, method, path string, userID int, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set("Authorization", "Bearer "+signToken(t, userID))
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func interactionBody(targetID int, action string) map[string]any {
	return map[string]any{"targetUserId": targetID, "action": action}
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodGet, "/health", 0, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInteractionsRequireAuth(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/api/v1/interactions", 0, interactionBody(2, "like"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRejectsTokenSignedWithWrongSecret(t *testing.T) {
	f := newAPIFixture()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", bytes.NewReader(nil))
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReciprocalLikeFlowOverHTTP(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/api/v1/interactions", 1, interactionBody(2, "like"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
	assert.Equal(t, 0, f.matches.Count())

	rec = f.do(t, http.MethodPost, "/api/v1/interactions", 2, interactionBody(1, "like"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.matches.Count())
}

func TestInteractionValidationErrors(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/api/v1/interactions", 1, interactionBody(2, "superlike"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/interactions", 1, interactionBody(1, "like"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/interactions", 1, map[string]any{"action": "like"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCandidatesEndpointReturnsRankedFeed(t *testing.T) {
	f := newAPIFixture()
	for _, id := range []int{1, 2, 3} {
		f.seedUser(t, id)
	}
	f.vector.Candidates = []domain.CandidateRaw{
		{UserID: 3, RawScore: 0.9},
		{UserID: 2, RawScore: 0.5},
	}

	rec := f.do(t, http.MethodGet, "/api/v1/matches/candidates?limit=10", 1, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var feed struct {
		Items []struct {
			UserID   int     `json:"user_id"`
			RawScore float64 `json:"raw_score"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed.Items, 2)
	assert.Equal(t, 3, feed.Items[0].UserID)
	assert.Equal(t, 2, feed.Items[1].UserID)
}

func TestCandidatesEndpointWithoutVentureReturns404(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodGet, "/api/v1/matches/candidates", 1, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDependencyOutageDoesNotLeakCause(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, 1)
	f.interactions.Err = assert.AnError

	rec := f.do(t, http.MethodPost, "/api/v1/interactions", 1, interactionBody(2, "like"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "interaction store unavailable", resp.Error)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestPendingRequestsEndpoint(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, 1)
	f.seedUser(t, 2)

	rec := f.do(t, http.MethodPost, "/api/v1/interactions", 2, interactionBody(1, "like"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/pending-requests", 1, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []struct {
			UserID  int     `json:"user_id"`
			LikedAt *string `json:"liked_at"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].UserID)
	assert.NotNil(t, resp.Items[0].LikedAt)
}

func TestBannerCountsEndpoint(t *testing.T) {
	f := newAPIFixture()
	f.ventures.TotalProfiles = 7
	f.seedUser(t, 1)

	rec := f.do(t, http.MethodGet, "/api/v1/banner-counts", 1, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var counts domain.BannerCounts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 7, counts.TotalProfiles)
	assert.Equal(t, 1, counts.RelatedTopics)
}

func TestMatchesEndpointListsCounterpartProfiles(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, 1)
	f.seedUser(t, 2)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/interactions", 1, interactionBody(2, "like")).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/interactions", 2, interactionBody(1, "like")).Code)

	rec := f.do(t, http.MethodGet, "/api/v1/matches", 1, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []struct {
			MatchID int `json:"match_id"`
			User    *struct {
				UserID int `json:"user_id"`
			} `json:"user"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.NotNil(t, resp.Items[0].User)
	assert.Equal(t, 2, resp.Items[0].User.UserID)
}

func TestBlockHidesCandidateOverHTTP(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, 1)
	f.seedUser(t, 2)
	f.vector.Candidates = []domain.CandidateRaw{{UserID: 2, RawScore: 0.9}}

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/interactions", 1, interactionBody(2, "block")).Code)

	rec := f.do(t, http.MethodGet, "/api/v1/matches/candidates", 1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Empty(t, feed.Items)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/interactions", 1, interactionBody(2, "unblock")).Code)

	rec = f.do(t, http.MethodGet, "/api/v1/matches/candidates", 1, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Len(t, feed.Items, 1)
}
