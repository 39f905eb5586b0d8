package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/koesnuj/portfolio-sub001/internal/config"
	"github.com/koesnuj/portfolio-sub001/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"http://localhost"}, RateLimit: -1},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &apiClient{t: t, router: Setup(ctx, testutil.NewTestDB(t), cfg)}
}

func (a *apiClient) do(method, path string, body interface{}) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (a *apiClient) decode(env envelope, out interface{}) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(env.Data, out))
}

// login registers the first (admin) account and keeps its token.
func (a *apiClient) login() {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/auth/register", gin.H{
		"email": "admin@example.com", "password": "secret1", "name": "Admin",
	})
	require.Equal(a.t, http.StatusOK, code, env.Message)
	var resp struct {
		Token string `json:"token"`
	}
	a.decode(env, &resp)
	require.NotEmpty(a.t, resp.Token)
	a.token = resp.Token
}

func TestHealth(t *testing.T) {
	api := newAPI(t)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)

	code, _ := api.do(http.MethodGet, "/api/folders", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	api.login()

	code, env := api.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, code)
	var me struct {
		Role   string `json:"role"`
		Status string `json:"status"`
	}
	api.decode(env, &me)
	assert.Equal(t, "ADMIN", me.Role)
	assert.Equal(t, "ACTIVE", me.Status)

	// The second account waits for approval and cannot log in yet.
	anon := &apiClient{t: t, router: api.router}
	code, env = anon.do(http.MethodPost, "/api/auth/register", gin.H{
		"email": "user@example.com", "password": "secret2", "name": "User",
	})
	require.Equal(t, http.StatusOK, code)
	var pending struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	anon.decode(env, &pending)
	assert.Empty(t, pending.Token)

	code, _ = anon.do(http.MethodPost, "/api/auth/login", gin.H{"email": "user@example.com", "password": "secret2"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(http.MethodPost, fmt.Sprintf("/api/admin/users/%d/approve", pending.User.ID), nil)
	require.Equal(t, http.StatusOK, code)

	code, env = anon.do(http.MethodPost, "/api/auth/login", gin.H{"email": "user@example.com", "password": "secret2"})
	assert.Equal(t, http.StatusOK, code)

	var session struct {
		Token string `json:"token"`
	}
	anon.decode(env, &session)
	anon.token = session.Token
	code, _ = anon.do(http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, code, "regular users cannot reach admin routes")

	code, _ = anon.do(http.MethodPost, "/api/auth/login", gin.H{"email": "user@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestValidationErrors(t *testing.T) {
	api := newAPI(t)
	api.login()

	code, env := api.do(http.MethodPost, "/api/folders", gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Equal(t, "notblank", env.Errors["name"])

	code, _ = api.do(http.MethodPatch, "/api/folders/abc", gin.H{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodPatch, "/api/folders/999", gin.H{"name": "x"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPlanLifecycle(t *testing.T) {
	api := newAPI(t)
	api.login()

	code, env := api.do(http.MethodPost, "/api/folders", gin.H{"name": "Login"})
	require.Equal(t, http.StatusCreated, code)
	var folder struct {
		ID uint `json:"id"`
	}
	api.decode(env, &folder)

	var caseIDs []uint
	for _, title := range []string{"valid", "invalid", "locked"} {
		code, env = api.do(http.MethodPost, "/api/testcases", gin.H{"title": title, "folderId": folder.ID})
		require.Equal(t, http.StatusCreated, code, env.Message)
		var tc struct {
			ID uint `json:"id"`
		}
		api.decode(env, &tc)
		caseIDs = append(caseIDs, tc.ID)
	}

	code, env = api.do(http.MethodPost, "/api/plans", gin.H{"name": "Release", "testCaseIds": caseIDs})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var plan struct {
		ID        uint   `json:"id"`
		CreatedBy string `json:"createdBy"`
		Items     []struct {
			ID uint `json:"id"`
		} `json:"items"`
	}
	api.decode(env, &plan)
	require.Len(t, plan.Items, 3)
	assert.Equal(t, "Admin", plan.CreatedBy)

	code, _ = api.do(http.MethodPatch, fmt.Sprintf("/api/plans/items/%d", plan.Items[0].ID), gin.H{"result": "PASS"})
	require.Equal(t, http.StatusOK, code)

	code, env = api.do(http.MethodPatch, fmt.Sprintf("/api/plans/%d/items/bulk", plan.ID), gin.H{
		"itemIds": []uint{plan.Items[1].ID, plan.Items[2].ID}, "assignee": "Admin",
	})
	require.Equal(t, http.StatusOK, code)
	var bulk struct {
		Updated int `json:"updated"`
	}
	api.decode(env, &bulk)
	assert.Equal(t, 2, bulk.Updated)

	code, env = api.do(http.MethodGet, "/api/plans", nil)
	require.Equal(t, http.StatusOK, code)
	var plans []struct {
		Stats struct {
			Progress int `json:"progress"`
		} `json:"stats"`
	}
	api.decode(env, &plans)
	require.Len(t, plans, 1)
	assert.Equal(t, 33, plans[0].Stats.Progress)

	code, env = api.do(http.MethodGet, "/api/dashboard/my-assignments", nil)
	require.Equal(t, http.StatusOK, code)
	var mine struct {
		Total   int `json:"total"`
		Pending int `json:"pending"`
	}
	api.decode(env, &mine)
	assert.Equal(t, 2, mine.Total)
	assert.Equal(t, 2, mine.Pending)

	archivePath := fmt.Sprintf("/api/plans/%d/archive", plan.ID)
	code, _ = api.do(http.MethodPost, archivePath, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodPost, archivePath, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env = api.do(http.MethodDelete, fmt.Sprintf("/api/folders/%d", folder.ID), nil)
	require.Equal(t, http.StatusOK, code)
	var deleted struct {
		Folders   int `json:"folders"`
		TestCases int `json:"testCases"`
		PlanItems int `json:"planItems"`
	}
	api.decode(env, &deleted)
	assert.Equal(t, 1, deleted.Folders)
	assert.Equal(t, 3, deleted.TestCases)
	assert.Equal(t, 3, deleted.PlanItems)

	code, env = api.do(http.MethodPost, "/api/plans/bulk-delete", gin.H{"ids": []uint{plan.ID, plan.ID}})
	require.Equal(t, http.StatusOK, code, env.Message)
	var removed struct {
		Plans     int `json:"plans"`
		PlanItems int `json:"planItems"`
	}
	api.decode(env, &removed)
	assert.Equal(t, 1, removed.Plans)
	assert.Equal(t, 0, removed.PlanItems)
}
