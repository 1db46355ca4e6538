package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"provenio/internal/entity"
	"provenio/internal/entity/store/link"
	"provenio/internal/masterdata/models"
	"provenio/internal/masterdata/service"
	"provenio/internal/masterdata/store/record"
	"provenio/internal/platform/logger"
	"provenio/internal/provenance"
	"provenio/internal/questionnaire"
	"provenio/internal/questionnaire/mocks"
	"provenio/internal/registry"
	"provenio/internal/workbench"
	id "provenio/pkg/domain"
	"provenio/pkg/platform/sentinel"
)

type testServer struct {
	server    *httptest.Server
	questions *mocks.MockService
	records   *record.InMemoryStore
	links     *link.InMemoryStore
	actorID   id.ActorID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)
	questions := mocks.NewMockService(ctrl)

	reg, err := registry.Seed()
	require.NoError(t, err)

	records := record.NewMemory()
	links := link.NewMemory()
	loader := service.NewLoader(reg, records, entity.NewResolver(links, nil))
	aggregator := workbench.NewAggregator(reg, loader, questions)
	propagator := workbench.NewPropagator(questions)

	h := New(aggregator, propagator, logger.Discard())
	router := chi.NewRouter()
	h.Register(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{
		server:    server,
		questions: questions,
		records:   records,
		links:     links,
		actorID:   id.ActorID(uuid.New()),
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, actor bool) *http.Response {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, bytes.NewReader(raw))
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

func TestHandleBuildWorkbench(t *testing.T) {
	t.Run("returns fields with sync status", func(t *testing.T) {
		ts := newTestServer(t)
		ctx := gomock.Any()
		clientID := id.ClientEntityID(uuid.New())
		legalID := id.LegalEntityID(uuid.New())
		require.NoError(t, ts.links.SaveLink(t.Context(), clientID, legalID))

		rec := models.NewRecord(legalID, registry.ModelLegalEntity)
		rec.Attrs["legalName"] = "Acme Ltd"
		rec.Meta["legalName"] = provenance.MetaEntry{
			FieldNo: 3, Source: id.SourceGLEIF, Timestamp: time.Now().UTC(),
		}
		require.NoError(t, ts.records.Put(t.Context(), rec))

		fieldNo := id.FieldNo(3)
		answer := "Acme Ltd"
		ts.questions.EXPECT().ListQuestions(ctx, clientID).Return([]questionnaire.Question{
			{ID: id.QuestionID(uuid.New()), Text: "Legal name?", Answer: &answer, MasterFieldNo: &fieldNo},
		}, nil)

		resp := ts.do(t, http.MethodGet, fmt.Sprintf("/entities/client/%s/workbench", clientID), nil, false)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Fields []workbench.Field `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Fields, 1)
		assert.Equal(t, workbench.FieldTypeSingle, body.Fields[0].Type)
		assert.Equal(t, "Acme Ltd", body.Fields[0].CurrentValue)
		assert.Equal(t, models.SyncSynced, body.Fields[0].Questions[0].Status)
	})

	t.Run("rejects a malformed client id", func(t *testing.T) {
		ts := newTestServer(t)

		resp := ts.do(t, http.MethodGet, "/entities/client/not-a-uuid/workbench", nil, false)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleAccept(t *testing.T) {
	t.Run("copies the master value into the answer", func(t *testing.T) {
		ts := newTestServer(t)
		questionID := id.QuestionID(uuid.New())
		ts.questions.EXPECT().
			UpdateAnswer(gomock.Any(), questionID, "Acme Ltd").
			Return(nil)

		resp := ts.do(t, http.MethodPost, fmt.Sprintf("/questions/%s/accept", questionID),
			AcceptRequest{MasterValue: "Acme Ltd"}, true)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("missing question maps to not found", func(t *testing.T) {
		ts := newTestServer(t)
		questionID := id.QuestionID(uuid.New())
		ts.questions.EXPECT().
			UpdateAnswer(gomock.Any(), questionID, "x").
			Return(sentinel.ErrNotFound)

		resp := ts.do(t, http.MethodPost, fmt.Sprintf("/questions/%s/accept", questionID),
			AcceptRequest{MasterValue: "x"}, true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("rejects requests without an actor", func(t *testing.T) {
		ts := newTestServer(t)

		resp := ts.do(t, http.MethodPost, fmt.Sprintf("/questions/%s/accept", uuid.New()),
			AcceptRequest{MasterValue: "x"}, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
