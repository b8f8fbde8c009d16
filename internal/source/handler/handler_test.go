package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	authtoken "warden/internal/auth_token"
	"warden/internal/source"
)

// HandlerSuite exercises the token endpoint against a real in-memory
// source service rather than a mocked one.
type HandlerSuite struct {
	suite.Suite
	router   http.Handler
	sourceID string
}

func (s *HandlerSuite) SetupTest() {
	store := source.NewInMemory()
	tokens := authtoken.NewService("test-signing-key", "warden-test", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := source.NewService(store, tokens, logger)

	src, _, err := svc.Register(context.Background(), source.Registration{
		EnvironmentID: "factory_floor",
		Name:          "gate-camera-1",
		Secret:        "camera-secret",
	})
	require.NoError(s.T(), err)
	s.sourceID = src.ID.String()

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) postToken(body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/sources/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestToken_ValidCredentials() {
	body, err := json.Marshal(TokenRequest{SourceID: s.sourceID, Secret: "camera-secret"})
	require.NoError(s.T(), err)

	rec := s.postToken(body)

	require.Equal(s.T(), http.StatusOK, rec.Code)
	var resp TokenResponse
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(s.T(), resp.AccessToken)
	assert.Equal(s.T(), "Bearer", resp.TokenType)
	assert.InDelta(s.T(), 3600, resp.ExpiresIn, 5)
}

func (s *HandlerSuite) TestToken_InvalidJSON() {
	rec := s.postToken([]byte("not valid json"))

	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestToken_MissingFields() {
	body, err := json.Marshal(TokenRequest{SourceID: s.sourceID})
	require.NoError(s.T(), err)

	rec := s.postToken(body)

	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "secret is required")
}

// All credential failures must come back as the same 401 so callers
// cannot probe which sources exist.
func (s *HandlerSuite) TestToken_BadCredentialsAreUniform() {
	cases := map[string]TokenRequest{
		"wrong secret": {SourceID: s.sourceID, Secret: "not-the-secret"},
		"unknown id":   {SourceID: "7a4bb0ad-8a9a-4aeb-ac9e-1a6e67cbd0a8", Secret: "camera-secret"},
		"malformed id": {SourceID: "gate-camera-1", Secret: "camera-secret"},
	}

	for name, reqBody := range cases {
		s.Run(name, func() {
			body, err := json.Marshal(reqBody)
			require.NoError(s.T(), err)

			rec := s.postToken(body)

			require.Equal(s.T(), http.StatusUnauthorized, rec.Code)
			var errResp struct {
				Error       string `json:"error"`
				Description string `json:"error_description"`
			}
			require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(s.T(), "unauthorized", errResp.Error)
			assert.Equal(s.T(), "invalid credentials", errResp.Description)
		})
	}
}
