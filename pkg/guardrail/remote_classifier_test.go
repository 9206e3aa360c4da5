package guardrail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/estatewise/sentinel/pkg/domain/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScoreServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteClassifier_ScoresText(t *testing.T) {
	var gotAuth string
	srv := newScoreServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/score", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Text      string `json:"text"`
			Direction string `json:"direction"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "under the table deal", req.Text)
		assert.Equal(t, "inbound", req.Direction)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"risk_level":"medium","category":"harmful"}`))
	})

	classifier := NewRemoteClassifier(RemoteClassifierOptions{
		BaseURL: srv.URL,
		Token:   "secret-token",
	})

	assessment, err := classifier.Classify(context.Background(), "under the table deal", security.Inbound)
	require.NoError(t, err)

	assert.Equal(t, security.Medium, assessment.Level)
	assert.Equal(t, "harmful", assessment.Category)
	assert.Equal(t, security.Inbound, assessment.Direction)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestRemoteClassifier_EmptyTextIsSafeWithoutCall(t *testing.T) {
	called := false
	srv := newScoreServer(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	classifier := NewRemoteClassifier(RemoteClassifierOptions{BaseURL: srv.URL})

	assessment, err := classifier.Classify(context.Background(), "", security.Outbound)
	require.NoError(t, err)
	assert.Equal(t, security.Safe, assessment.Level)
	assert.False(t, called)
}

func TestRemoteClassifier_DefaultsMissingCategory(t *testing.T) {
	srv := newScoreServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"risk_level":"high"}`))
	})

	classifier := NewRemoteClassifier(RemoteClassifierOptions{BaseURL: srv.URL})

	assessment, err := classifier.Classify(context.Background(), "text", security.Outbound)
	require.NoError(t, err)
	assert.Equal(t, security.High, assessment.Level)
	assert.Equal(t, "remote", assessment.Category)
}

func TestRemoteClassifier_ErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
		},
		{
			name: "unknown risk level",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"risk_level":"catastrophic"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newScoreServer(t, tt.handler)
			classifier := NewRemoteClassifier(RemoteClassifierOptions{BaseURL: srv.URL})

			_, err := classifier.Classify(context.Background(), "text", security.Inbound)
			assert.Error(t, err)
		})
	}
}

func TestRemoteClassifier_BreakerOpensAfterFailures(t *testing.T) {
	srv := newScoreServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	classifier := NewRemoteClassifier(RemoteClassifierOptions{
		BaseURL:     srv.URL,
		MaxFailures: 2,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := classifier.Classify(ctx, "text", security.Inbound)
		require.Error(t, err)
	}

	// The breaker is open now, requests fail fast without reaching the server.
	_, err := classifier.Classify(ctx, "text", security.Inbound)
	assert.Error(t, err)
}
