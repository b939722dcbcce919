package rest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rspo-readiness/internal/assessment"
	"rspo-readiness/internal/catalog"
	"rspo-readiness/internal/model"
	"rspo-readiness/internal/repository"
	"rspo-readiness/internal/service"
	"rspo-readiness/internal/transport/ws"
)

type memProgress struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (m *memProgress) Get(_ context.Context, userID string) (*model.AssessmentData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[userID]
	if !ok {
		return nil, nil
	}
	var data model.AssessmentData
	return &data, json.Unmarshal(raw, &data)
}

func (m *memProgress) Set(_ context.Context, data *model.AssessmentData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(data)
	m.items[data.UserID] = raw
	return err
}

func (m *memProgress) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID)
	return nil
}

type testAPI struct {
	handler http.Handler
	store   *repository.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	cat, err := catalog.Default()
	require.NoError(t, err)

	db, err := repository.OpenSQL(ctx, repository.DriverSQLite, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	store := repository.NewSQLStore(db)
	t.Cleanup(func() { store.Close(ctx) })

	authSvc := service.NewAuthService(store.Users, "router-test-secret", time.Hour)
	authSvc.SetHashCost(bcrypt.MinCost)
	assessmentSvc := service.NewAssessmentService(cat, &memProgress{items: map[string][]byte{}}, store.Results, assessment.DefaultPolicy())
	hub := ws.NewHub()
	assessmentSvc.SetBroadcaster(hub)

	return &testAPI{
		handler: NewRouter(&Container{
			AuthService:       authSvc,
			AssessmentService: assessmentSvc,
			Catalog:           cat,
			CORSOrigins:       []string{"http://localhost:3000"},
			WSHub:             hub,
		}),
		store: store,
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (a *testAPI) register(t *testing.T, email string, role model.Role) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/v1/auth/register", "", model.RegisterRequest{
		Email: email, Password: "password123", Name: "Tester", Role: role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp model.LoginResponse
	decode(t, rec, &resp)
	return resp.Token
}

func TestPublicRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "RSPO Readiness API")

	rec = api.do(t, http.MethodGet, "/v1/catalog/stages/1?role=petani", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stage struct {
		Title     string           `json:"title"`
		Questions []model.Question `json:"questions"`
	}
	decode(t, rec, &stage)
	assert.Equal(t, "Kelayakan", stage.Title)
	assert.Len(t, stage.Questions, 12)

	rec = api.do(t, http.MethodGet, "/v1/catalog/stages/1", "", nil)
	decode(t, rec, &stage)
	assert.Len(t, stage.Questions, 14)

	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/v1/catalog/stages/9", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/v1/catalog/stages/completed", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/v1/catalog/stages/2?role=pembeli", "", nil).Code)

	rec = api.do(t, http.MethodGet, "/v1/catalog/tiers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tiers map[string][]model.Tier
	decode(t, rec, &tiers)
	assert.Len(t, tiers["stage"], 4)
	assert.Equal(t, "Outstanding", tiers["overall"][0].Label)
}

func TestAuthRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "petani@example.com", model.RolePetani)

	rec := api.do(t, http.MethodPost, "/v1/auth/register", "", model.RegisterRequest{
		Email: "petani@example.com", Password: "password123", Role: model.RolePetani,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, "/v1/auth/register", "", "{not json").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, "/v1/auth/register", "", model.RegisterRequest{
		Email: "x@example.com", Password: "password123", Role: "pembeli",
	}).Code)

	rec = api.do(t, http.MethodPost, "/v1/auth/login", "", model.LoginRequest{Email: "petani@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodPost, "/v1/auth/login", "", model.LoginRequest{Email: "petani@example.com", Password: "salah-sandi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	var me model.User
	decode(t, rec, &me)
	assert.Equal(t, model.RolePetani, me.Role)

	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/v1/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/v1/me", "forged", nil).Code)
}

func TestAssessmentFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "petani@example.com", model.RolePetani)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/v1/assessment", token, nil).Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/v1/assessment/start", token, nil).Code)

	rec := api.do(t, http.MethodGet, "/v1/assessment/stages/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view model.StageView
	decode(t, rec, &view)
	assert.Len(t, view.Questions, 12)
	assert.False(t, view.Locked)

	rec = api.do(t, http.MethodPut, "/v1/assessment/stages/1/answers/q1", token, model.AnswerInput{Value: "ya"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &view)
	assert.Equal(t, 2, view.Score)
	assert.Equal(t, 1, view.Answered)

	errorCases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"locked stage", http.MethodPut, "/v1/assessment/stages/2/answers/q16", model.AnswerInput{Value: "ya"}, http.StatusForbidden},
		{"hidden question", http.MethodPut, "/v1/assessment/stages/1/answers/q11", model.AnswerInput{Value: "ya"}, http.StatusConflict},
		{"unknown option", http.MethodPut, "/v1/assessment/stages/1/answers/q1", model.AnswerInput{Value: "mungkin"}, http.StatusBadRequest},
		{"unknown question", http.MethodPut, "/v1/assessment/stages/1/answers/q99", model.AnswerInput{Value: "ya"}, http.StatusBadRequest},
		{"bad stage", http.MethodGet, "/v1/assessment/stages/x", nil, http.StatusBadRequest},
		{"completed marker", http.MethodGet, "/v1/assessment/stages/completed", nil, http.StatusBadRequest},
		{"bad body", http.MethodPut, "/v1/assessment/stages/1/answers", "[", http.StatusBadRequest},
		{"complete locked stage", http.MethodPost, "/v1/assessment/stages/3/complete", nil, http.StatusForbidden},
		{"save before complete", http.MethodPost, "/v1/assessment/stages/1/save", nil, http.StatusConflict},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, api.do(t, tc.method, tc.path, token, tc.body).Code)
		})
	}

	inputs := make([]model.AnswerInput, 0, len(view.Questions))
	for _, q := range view.Questions {
		inputs = append(inputs, model.AnswerInput{QuestionID: q.ID, Value: "ya"})
	}
	rec = api.do(t, http.MethodPut, "/v1/assessment/stages/1/answers", token, model.SetStageAnswersRequest{Answers: inputs})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/v1/assessment/stages/1/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res model.StageResult
	decode(t, rec, &res)
	assert.True(t, res.Eligible)
	assert.Equal(t, 86, res.Percentage)
	assert.Equal(t, "Excellent", res.Tier.Label)
	assert.Equal(t, model.StageMilestoneA, res.NextStage)

	rec = api.do(t, http.MethodGet, "/v1/assessment", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var progress model.Progress
	decode(t, rec, &progress)
	assert.Equal(t, model.StageMilestoneA, progress.Assessment.CurrentStage)
	assert.Len(t, progress.Stages, 3)

	rec = api.do(t, http.MethodGet, "/v1/assessment/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []model.AssessmentRecord
	decode(t, rec, &history)
	require.Len(t, history, 1)
	assert.Equal(t, model.AnswerEntry{Answer: "ya", Score: 2, MaxScore: 2}, history[0].Answers["q1"])

	rec = api.do(t, http.MethodGet, "/v1/assessment/result", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var final model.FinalResult
	decode(t, rec, &final)
	assert.False(t, final.Completed)
	assert.Equal(t, 24, final.TotalScore)

	rec = api.do(t, http.MethodPost, "/v1/assessment/reset", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data model.AssessmentData
	decode(t, rec, &data)
	assert.Equal(t, model.StageEligibility, data.CurrentStage)
	assert.Empty(t, data.Stage1)

	rec = api.do(t, http.MethodGet, "/v1/assessment/history", token, nil)
	decode(t, rec, &history)
	assert.Empty(t, history)
}

func TestCompleteWhenStoreIsDown(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "manajer@example.com", model.RoleManajer)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/v1/assessment/start", token, nil).Code)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/v1/assessment/stages/1/answers/q1", token, model.AnswerInput{Value: "ya"}).Code)

	require.NoError(t, api.store.Close(context.Background()))

	rec := api.do(t, http.MethodPost, "/v1/assessment/stages/1/complete", token, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())
	var body struct {
		Error  string            `json:"error"`
		Result model.StageResult `json:"result"`
	}
	decode(t, rec, &body)
	assert.Equal(t, service.ErrPersistFailed.Error(), body.Error)
	assert.Equal(t, 2, body.Result.Score)
	assert.False(t, body.Result.Eligible)

	assert.Equal(t, http.StatusBadGateway, api.do(t, http.MethodPost, "/v1/assessment/stages/1/save", token, nil).Code)

	rec = api.do(t, http.MethodPost, "/v1/assessment/reset", token, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())
	var reset struct {
		Error  string               `json:"error"`
		Result model.AssessmentData `json:"result"`
	}
	decode(t, rec, &reset)
	assert.Equal(t, service.ErrPersistFailed.Error(), reset.Error)
	assert.Equal(t, model.StageEligibility, reset.Result.CurrentStage)
	assert.Empty(t, reset.Result.Stage1)
}
