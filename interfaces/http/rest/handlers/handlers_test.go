package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/application/services"
	"schoolhub-backend/application/upload"
	"schoolhub-backend/pkg/auth"
	"schoolhub-backend/tests/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv wires every handler over an in-memory store so tests can drive the
// routes the way the router mounts them.
type testEnv struct {
	store  *mocks.FakeRecordStore
	tables ports.Tables
	tokens *auth.TokenIssuer
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := mocks.NewFakeRecordStore()
	tables := ports.Tables{
		Students: ports.Table{Name: "students-table", Key: "student_id"},
		Teachers: ports.Table{Name: "teachers-table", Key: "teacher_id"},
		Games:    ports.Table{Name: "games-table", Key: "game_id"},
	}
	tokens, err := auth.NewTokenIssuer("test-secret", "schoolhub", time.Hour)
	require.NoError(t, err)
	logger := zap.NewNop()

	pipelines := map[string]*upload.Pipeline{
		upload.EntityStudents: upload.NewPipeline(store, upload.StudentSpec(tables.Students), logger),
		upload.EntityTeachers: upload.NewPipeline(store, upload.TeacherSpec(tables.Teachers), logger),
		upload.EntityGames:    upload.NewPipeline(store, upload.GameSpec(tables.Games), logger),
	}
	specs := map[string]upload.EntitySpec{
		upload.EntityStudents: upload.StudentSpec(tables.Students),
		upload.EntityTeachers: upload.TeacherSpec(tables.Teachers),
		upload.EntityGames:    upload.GameSpec(tables.Games),
	}

	authHandler := NewAuthHandler(services.NewAuthService(store, tables, tokens, logger), logger)
	gameHandler := NewGameHandler(services.NewClickService(store, tables, nil, logger), logger)
	uploadHandler := NewUploadHandler(services.NewUploadService(pipelines, nil, nil, logger), logger)
	downloadHandler := NewDownloadHandler(services.NewExportService(store, specs, logger), logger)

	router := chi.NewRouter()
	router.Post("/auth/login", authHandler.Login)
	router.Post("/games/{gameID}/click", gameHandler.Click)
	router.Post("/upload/{entity}", uploadHandler.Upload)
	router.Get("/{entity}/download", downloadHandler.Download)

	return &testEnv{store: store, tables: tables, tokens: tokens, router: router}
}

// do runs one request through the router and decodes a JSON body when the
// response carries one.
func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)

	var decoded map[string]any
	if ct := recorder.Header().Get("Content-Type"); ct == "application/json" {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder, decoded
}

func assertStatus(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, recorder.Code, "body: %s", recorder.Body.String())
}
