package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provenio/internal/entity"
	"provenio/internal/entity/store/link"
	"provenio/internal/masterdata/service"
	"provenio/internal/masterdata/store/history"
	"provenio/internal/masterdata/store/record"
	"provenio/internal/platform/logger"
	"provenio/internal/provenance"
	"provenio/internal/registry"
	id "provenio/pkg/domain"
)

type testServer struct {
	server  *httptest.Server
	writer  *service.Writer
	legalID id.LegalEntityID
	actorID id.ActorID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	reg, err := registry.Seed()
	require.NoError(t, err)

	records := record.NewMemory()
	events := history.NewMemory()
	links := link.NewMemory()
	loader := service.NewLoader(reg, records, entity.NewResolver(links, nil))
	writer := service.NewWriter(reg, provenance.NewValidator(reg), records, events)
	resolution := service.NewResolution(reg, loader, events)

	log := logger.Discard()
	h := New(resolution, writer, log)
	router := chi.NewRouter()
	h.Register(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{
		server:  server,
		writer:  writer,
		legalID: id.LegalEntityID(uuid.New()),
		actorID: id.ActorID(uuid.New()),
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, actor bool) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if actor {
		req.Header.Set("X-Actor-ID", ts.actorID.String())
	}

	resp, err := ts.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandleOverride(t *testing.T) {
	t.Run("writes the value and returns the event", func(t *testing.T) {
		ts := newTestServer(t)
		path := fmt.Sprintf("/entities/legal/%s/fields/3/override", ts.legalID)

		resp := ts.do(t, http.MethodPost, path, OverrideRequest{NewValue: "Acme Ltd", Note: "per certificate"}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Acme Ltd", body["value"])
		assert.Equal(t, string(id.SourceUserInput), body["source"])
	})

	t.Run("rejects requests without an actor", func(t *testing.T) {
		ts := newTestServer(t)
		path := fmt.Sprintf("/entities/legal/%s/fields/3/override", ts.legalID)

		resp := ts.do(t, http.MethodPost, path, OverrideRequest{NewValue: "Acme Ltd"}, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects a missing new value", func(t *testing.T) {
		ts := newTestServer(t)
		path := fmt.Sprintf("/entities/legal/%s/fields/3/override", ts.legalID)

		resp := ts.do(t, http.MethodPost, path, map[string]any{"note": "no value"}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("rejects an unknown field number", func(t *testing.T) {
		ts := newTestServer(t)
		path := fmt.Sprintf("/entities/legal/%s/fields/9999/override", ts.legalID)

		resp := ts.do(t, http.MethodPost, path, OverrideRequest{NewValue: "x"}, true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("rejects a malformed entity id", func(t *testing.T) {
		ts := newTestServer(t)

		resp := ts.do(t, http.MethodPost, "/entities/legal/not-a-uuid/fields/3/override", OverrideRequest{NewValue: "x"}, true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleIngestCandidate(t *testing.T) {
	t.Run("records an external candidate", func(t *testing.T) {
		ts := newTestServer(t)
		path := fmt.Sprintf("/entities/legal/%s/fields/3/candidates", ts.legalID)

		resp := ts.do(t, http.MethodPost, path, CandidateRequest{Value: "ACME LTD", Source: "GLEIF"}, false)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "GLEIF", body["source"])
	})

	t.Run("rejects an unknown source", func(t *testing.T) {
		ts := newTestServer(t)
		path := fmt.Sprintf("/entities/legal/%s/fields/3/candidates", ts.legalID)

		resp := ts.do(t, http.MethodPost, path, CandidateRequest{Value: "x", Source: "RUMOR"}, false)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects user input as a candidate source", func(t *testing.T) {
		ts := newTestServer(t)
		path := fmt.Sprintf("/entities/legal/%s/fields/3/candidates", ts.legalID)

		resp := ts.do(t, http.MethodPost, path, CandidateRequest{Value: "x", Source: "USER_INPUT"}, false)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleFieldDetail(t *testing.T) {
	t.Run("returns current value with history", func(t *testing.T) {
		ts := newTestServer(t)
		ctx := context.Background()
		_, err := ts.writer.ApplyManualOverride(ctx, service.Override{
			EntityID: ts.legalID, FieldNo: 3, NewValue: "Acme Ltd", ActorID: ts.actorID,
		})
		require.NoError(t, err)

		resp := ts.do(t, http.MethodGet, fmt.Sprintf("/entities/legal/%s/fields/3", ts.legalID), nil, false)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		current, ok := body["current"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Acme Ltd", current["value"])
		history, ok := body["history"].([]any)
		require.True(t, ok)
		assert.Len(t, history, 1)
	})

	t.Run("unknown field is not found", func(t *testing.T) {
		ts := newTestServer(t)

		resp := ts.do(t, http.MethodGet, fmt.Sprintf("/entities/legal/%s/fields/9999", ts.legalID), nil, false)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown entity type is rejected", func(t *testing.T) {
		ts := newTestServer(t)

		resp := ts.do(t, http.MethodGet, fmt.Sprintf("/entities/branch/%s/fields/3", uuid.New()), nil, false)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleResolve(t *testing.T) {
	t.Run("resolves question mappings against master data", func(t *testing.T) {
		ts := newTestServer(t)
		ctx := context.Background()
		_, err := ts.writer.ApplyManualOverride(ctx, service.Override{
			EntityID: ts.legalID, FieldNo: 3, NewValue: "Acme Ltd", ActorID: ts.actorID,
		})
		require.NoError(t, err)

		questionID := id.QuestionID(uuid.New())
		fieldNo := id.FieldNo(3)
		answer := "Acme Ltd"
		req := ResolveRequest{Questions: []ResolveQuestion{
			{ID: questionID, Answer: &answer, MasterFieldNo: &fieldNo},
		}}

		resp := ts.do(t, http.MethodPost, fmt.Sprintf("/entities/legal/%s/resolve", ts.legalID), req, false)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		resolved, ok := body["resolved"].(map[string]any)
		require.True(t, ok)
		byField, ok := resolved[questionID.String()].(map[string]any)
		require.True(t, ok)
		entry, ok := byField["3"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Acme Ltd", entry["value"])
		assert.Equal(t, true, entry["is_synced"])
	})

	t.Run("rejects a question mapped to both field and group", func(t *testing.T) {
		ts := newTestServer(t)
		fieldNo := id.FieldNo(3)
		groupID := id.GroupID("registered_address")
		req := ResolveRequest{Questions: []ResolveQuestion{
			{ID: id.QuestionID(uuid.New()), MasterFieldNo: &fieldNo, MasterGroupID: &groupID},
		}}

		resp := ts.do(t, http.MethodPost, fmt.Sprintf("/entities/legal/%s/resolve", ts.legalID), req, false)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}
