package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/application/services"
	"schoolhub-backend/application/upload"
	"schoolhub-backend/domain/school"
	"schoolhub-backend/interfaces/http/rest"
	"schoolhub-backend/pkg/auth"
	"schoolhub-backend/tests/fixtures"
	"schoolhub-backend/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// apiEnv is a full router over an in-memory store, the closest thing to the
// deployed service that runs without AWS.
type apiEnv struct {
	store   *mocks.FakeRecordStore
	tables  ports.Tables
	handler http.Handler
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	store := mocks.NewFakeRecordStore()
	tables := ports.Tables{
		Students: ports.Table{Name: "students-table", Key: "student_id"},
		Teachers: ports.Table{Name: "teachers-table", Key: "teacher_id"},
		Games:    ports.Table{Name: "games-table", Key: "game_id"},
	}
	tokens, err := auth.NewTokenIssuer("integration-secret", "schoolhub", time.Hour)
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

	router := rest.NewRouter(
		services.NewAuthService(store, tables, tokens, logger),
		services.NewClickService(store, tables, nil, logger),
		services.NewUploadService(pipelines, nil, nil, logger),
		services.NewExportService(store, specs, logger),
		tokens,
		logger,
	)

	return &apiEnv{store: store, tables: tables, handler: router.Setup()}
}

func (e *apiEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	e.handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestAPI_HealthEndpoints(t *testing.T) {
	env := newAPIEnv(t)

	assert.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/ready", "", nil).Code)
}

func TestAPI_UploadRequiresToken(t *testing.T) {
	env := newAPIEnv(t)
	file := fixtures.MustWorkbookBase64([]string{"student_id"}, [][]string{{"S001"}})

	recorder := env.request(t, http.MethodPost, "/upload/students", "", map[string]string{"file": file})

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAPI_FullTeacherWorkflow(t *testing.T) {
	env := newAPIEnv(t)
	env.store.Seed(env.tables.Teachers, school.Record{
		"teacher_id": "T001",
		"name":       "Ms Chan",
		"password":   "pw",
		"is_admin":   true,
	})

	// Login as the admin teacher.
	loginRec := env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"id":       "T001",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, loginRec.Code, "body: %s", loginRec.Body.String())
	login := decodeBody(t, loginRec)
	assert.Equal(t, "admin", login["role"])
	token := login["token"].(string)
	require.NotEmpty(t, token)

	// Upload a student roster and a game catalogue.
	students := fixtures.MustWorkbookBase64(
		[]string{"student_id", "first_name", "marks", "password"},
		[][]string{{"S001", "Alice", "0", "pw1"}},
	)
	uploadRec := env.request(t, http.MethodPost, "/upload/students", token, map[string]string{"file": students})
	require.Equal(t, http.StatusOK, uploadRec.Code, "body: %s", uploadRec.Body.String())

	games := fixtures.MustWorkbookBase64(
		[]string{"game_id", "game_name", "difficulty", "scratch_api"},
		[][]string{{"", "Math Run", "Advanced", "https://api.scratch.mit.edu/projects/123456"}},
	)
	uploadRec = env.request(t, http.MethodPost, "/upload/games", token, map[string]string{"file": games})
	require.Equal(t, http.StatusOK, uploadRec.Code, "body: %s", uploadRec.Body.String())

	// The game id was derived from the scratch_api URL.
	require.NotNil(t, env.store.Stored(env.tables.Games, "123456"))

	// The student logs in and clicks the game, earning advanced-level marks.
	studentLogin := decodeBody(t, env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"id":       "S001",
		"password": "pw1",
	}))
	assert.Equal(t, "student", studentLogin["role"])

	clickRec := env.request(t, http.MethodPost, "/games/123456/click", "", map[string]string{
		"student_id": "S001",
		"role":       "student",
	})
	require.Equal(t, http.StatusOK, clickRec.Code)
	click := decodeBody(t, clickRec)
	assert.Equal(t, float64(1), click["accumulated_click"])
	assert.Equal(t, float64(15), click["marks"])

	// Download the roster; the earned marks are in the export.
	downloadRec := env.request(t, http.MethodGet, "/students/download", token, nil)
	require.Equal(t, http.StatusOK, downloadRec.Code)

	file, err := excelize.OpenReader(bytes.NewReader(downloadRec.Body.Bytes()))
	require.NoError(t, err)
	defer file.Close()
	rows, err := file.GetRows(file.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "S001", rows[1][0])
	assert.Equal(t, "15", rows[1][3])

	// Re-uploading the same game file never resets the click counter.
	uploadRec = env.request(t, http.MethodPost, "/upload/games", token, map[string]string{"file": games})
	require.Equal(t, http.StatusOK, uploadRec.Code)
	assert.Equal(t, 1, env.store.Stored(env.tables.Games, "123456").Int(school.FieldAccumulatedClick))
}
