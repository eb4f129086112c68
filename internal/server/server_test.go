package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indexpilot/indexpilot/internal/advisor"
	"github.com/indexpilot/indexpilot/internal/ai/mock"
)

func newTestServer(users map[string]string) *Server {
	c := mock.New(`{"explanation": "nothing"}`)
	c.Respond("searchableAttributes", `{"searchableAttributes": ["title", "ghost"], "explanation": "text"}`)
	c.Respond("customRanking", `{"customRanking": [], "explanation": "none"}`)
	c.Respond("attributesForFaceting", `{"attributesForFaceting": [], "explanation": "none"}`)
	c.Respond("sortReplicas", `{"sortReplicas": [], "explanation": "none"}`)
	return New(advisor.New(c, nil), Config{BasicAuthUsers: users}, nil)
}

func postSuggest(t *testing.T, h http.Handler, body any, auth func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/suggest", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if auth != nil {
		auth(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleSuggest(t *testing.T) {
	h := newTestServer(nil).Handler()

	rec := postSuggest(t, h, map[string]any{
		"records":  []map[string]any{{"title": "a"}},
		"sections": []string{"searchable"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got advisor.Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"title"}, got.SearchableAttributes)
	assert.Equal(t, "mock", got.Model)
}

func TestHandleSuggest_NoRecords(t *testing.T) {
	h := newTestServer(nil).Handler()
	rec := postSuggest(t, h, map[string]any{"records": []map[string]any{}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSuggest_BadSection(t *testing.T) {
	h := newTestServer(nil).Handler()
	rec := postSuggest(t, h, map[string]any{
		"records":  []map[string]any{{"title": "a"}},
		"sections": []string{"typos"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBasicAuth(t *testing.T) {
	h := newTestServer(map[string]string{"demo": "secret"}).Handler()
	body := map[string]any{"records": []map[string]any{{"title": "a"}}}

	rec := postSuggest(t, h, body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postSuggest(t, h, body, func(r *http.Request) { r.SetBasicAuth("demo", "wrong") })
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postSuggest(t, h, body, func(r *http.Request) { r.SetBasicAuth("demo", "secret") })
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthBypassesAuth(t *testing.T) {
	h := newTestServer(map[string]string{"demo": "secret"}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
