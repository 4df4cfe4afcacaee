package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"workasana/internal/config"
	"workasana/internal/database"
	"workasana/internal/handler"
	"workasana/internal/middleware"
	"workasana/internal/model"
	"workasana/internal/router"
	"workasana/internal/service"
	"workasana/internal/token"
)

const testSecret = "integration-test-secret"

// memoryStore backs the full API surface in memory so the router can
// be exercised end to end without Postgres.
type memoryStore struct {
	mu       sync.RWMutex
	users    map[string]model.User
	teams    map[string]model.Team
	projects map[string]model.Project
	tasks    map[string]model.Task
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    map[string]model.User{},
		teams:    map[string]model.Team{},
		projects: map[string]model.Project{},
		tasks:    map[string]model.Task{},
	}
}

func (m *memoryStore) FindByID(_ context.Context, id string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memoryStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(context.Background(), email)
	return err == nil, nil
}

func (m *memoryStore) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return model.ErrEmailTaken
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memoryStore) DeleteUser(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

func (m *memoryStore) List(_ context.Context) ([]model.PublicUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []model.PublicUser{}
	for _, u := range m.users {
		out = append(out, u.Public())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memoryStore) FindPublicByIDs(_ context.Context, ids []string) (map[string]model.PublicUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]model.PublicUser{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u.Public()
		}
	}
	return out, nil
}

// teamStore / projectStore adapt memoryStore to the narrower handler
// and service contracts without method-name collisions.
type teamStore struct{ *memoryStore }

func (s teamStore) ExistsByName(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.teams {
		if strings.EqualFold(t.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s teamStore) Create(_ context.Context, t model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = t
	return nil
}

func (s teamStore) List(_ context.Context) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Team{}
	for _, t := range s.teams {
		out = append(out, t)
	}
	return out, nil
}

func (s teamStore) FindByID(_ context.Context, id string) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return model.Team{}, model.ErrTeamNotFound
	}
	return t, nil
}

type projectStore struct{ *memoryStore }

func (s projectStore) ExistsByName(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s projectStore) Create(_ context.Context, p model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
	return nil
}

func (s projectStore) List(_ context.Context) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Project{}
	for _, p := range s.projects {
		out = append(out, p)
	}
	return out, nil
}

func (s projectStore) FindByID(_ context.Context, id string) (model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return model.Project{}, model.ErrProjectNotFound
	}
	return p, nil
}

type taskStore struct{ *memoryStore }

func (s taskStore) Create(_ context.Context, t model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
	return nil
}

func (s taskStore) FindByID(_ context.Context, id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, model.ErrTaskNotFound
	}
	return t, nil
}

func (s taskStore) Update(_ context.Context, t model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return model.ErrTaskNotFound
	}
	s.tasks[t.ID] = t
	return nil
}

func (s taskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return model.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s taskStore) matches(t model.Task, f model.TaskFilter) bool {
	if f.TeamID != "" && t.TeamID != f.TeamID {
		return false
	}
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.OwnerID != "" {
		found := false
		for _, owner := range t.Owners {
			if owner == f.OwnerID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Tags) > 0 {
		found := false
		for _, want := range f.Tags {
			for _, have := range t.Tags {
				if have == want {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s taskStore) detail(t model.Task) model.TaskDetail {
	d := model.TaskDetail{Task: t}
	if p, ok := s.projects[t.ProjectID]; ok {
		d.Project = model.ProjectRef{ID: p.ID, Name: p.Name, Description: p.Description}
	}
	if tm, ok := s.teams[t.TeamID]; ok {
		d.Team = model.TeamRef{ID: tm.ID, Name: tm.Name, Description: tm.Description}
	}
	return d
}

func (s taskStore) ListDetailed(_ context.Context, f model.TaskFilter) ([]model.TaskDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.TaskDetail{}
	for _, t := range s.tasks {
		if s.matches(t, f) {
			out = append(out, s.detail(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s taskStore) CompletedSince(_ context.Context, since time.Time) ([]model.TaskDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.TaskDetail{}
	for _, t := range s.tasks {
		if t.Status == model.StatusCompleted && !t.UpdatedAt.Before(since) {
			out = append(out, s.detail(t))
		}
	}
	return out, nil
}

func (s taskStore) Pending(_ context.Context) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Task{}
	for _, t := range s.tasks {
		if t.Status != model.StatusCompleted {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s taskStore) ClosedSummary(_ context.Context) (model.ClosedTasksReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report := model.ClosedTasksReport{
		ByTeam:    map[string]int{},
		ByProject: map[string]int{},
		ByOwner:   map[string]int{},
	}
	for _, t := range s.tasks {
		if t.Status != model.StatusCompleted {
			continue
		}
		report.TotalCompleted++
		if tm, ok := s.teams[t.TeamID]; ok {
			report.ByTeam[tm.Name]++
		}
		if p, ok := s.projects[t.ProjectID]; ok {
			report.ByProject[p.Name]++
		}
		for _, owner := range t.Owners {
			if u, ok := s.users[owner]; ok {
				report.ByOwner[u.Name]++
			}
		}
	}
	return report, nil
}

type staticCounter struct{ store *memoryStore }

func (c staticCounter) Counts(_ context.Context) (database.EntityCounts, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return database.EntityCounts{
		Users:    len(c.store.users),
		Teams:    len(c.store.teams),
		Projects: len(c.store.projects),
		Tasks:    len(c.store.tasks),
	}, nil
}

type testAPI struct {
	handler http.Handler
	store   *memoryStore
	codec   *token.Codec
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{
		Environment:      "test",
		RequestTimeout:   30 * time.Second,
		JWTSecret:        testSecret,
		TokenTTL:         time.Hour,
		CORSOrigins:      []string{"http://localhost:5173"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	store := newMemoryStore()
	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(store, codec)
	taskService := service.NewTaskService(taskStore{store}, projectStore{store}, teamStore{store}, store)
	reportService := service.NewReportService(taskStore{store}, store)
	tagService := service.NewTagService()

	authMW := middleware.NewAuthMiddleware(codec, store)

	h := router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(store),
		Team:    handler.NewTeamHandler(teamStore{store}),
		Project: handler.NewProjectHandler(projectStore{store}),
		Task:    handler.NewTaskHandler(taskService),
		Tag:     handler.NewTagHandler(tagService),
		Report:  handler.NewReportHandler(reportService),
		Health:  handler.NewHealthHandler(staticCounter{store}),
	}

	return &testAPI{handler: router.New(cfg, authMW, h), store: store, codec: codec}
}

func (a *testAPI) do(t *testing.T, method string, path string, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "127.0.0.1:9999"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeAs[model.ErrorResponse](t, rec).Error.Code
}

// signup registers a user and returns its token and public identity.
func (a *testAPI) signup(t *testing.T, name string, email string) (string, model.PublicUser) {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/auth/signup", "", model.SignupRequest{
		Name: name, Email: email, Password: "password-" + name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeAs[model.AuthResponse](t, rec)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User
}
