package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toystore/internal/auth"
	"toystore/internal/domain"
	"toystore/internal/repository/sqlite"
	"toystore/internal/service"
)

type testEnv struct {
	router *gin.Engine
	users  service.UserService
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := sqlite.NewUserRepository(db)
	productRepo := sqlite.NewProductRepository(db)
	messageRepo := sqlite.NewMessageRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, productRepo.Init(ctx))
	require.NoError(t, messageRepo.Init(ctx))

	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	users := service.NewUserService(userRepo, tokens)
	products := service.NewProductService(productRepo)
	messages := service.NewMessageService(messageRepo)

	for i := 1; i <= 12; i++ {
		_, err := productRepo.Create(ctx, &domain.Product{
			Name:        fmt.Sprintf("tren %02d", i),
			Description: "juguete",
			Price:       9.99,
		})
		require.NoError(t, err)
	}

	logger := logrus.New()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(users, products, messages, tokens, logger).RegisterRoutes(router, nil, nil)

	return &testEnv{router: router, users: users, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedUser(t *testing.T, username, password, role string) {
	t.Helper()
	require.NoError(t, e.users.EnsureUser(context.Background(), username, password, role))
}

func (e *testEnv) loginToken(t *testing.T, username, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func TestLoginEndpoint_Success(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "pw1", domain.RoleAdmin)

	w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "pw1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.RoleAdmin, resp.Role)

	claims, err := env.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestLoginEndpoint_FailuresIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "pw1", domain.RoleAdmin)

	wrongPass := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "wrong"})
	unknown := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ghost", "password": "pw1"})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, `{"error":"Credenciales inválidas."}`, wrongPass.Body.String())
	assert.Equal(t, wrongPass.Body.String(), unknown.Body.String(),
		"unknown user and wrong password must share one response")
}

func TestProductsEndpoint_Pagination(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/juguetes?page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Juguetes []struct {
			ID     int64   `json:"id"`
			Nombre string  `json:"nombre"`
			Precio float64 `json:"precio"`
		} `json:"juguetes"`
		TotalItems  int64 `json:"totalItems"`
		TotalPages  int64 `json:"totalPages"`
		CurrentPage int64 `json:"currentPage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(12), resp.TotalItems)
	assert.Equal(t, int64(2), resp.TotalPages)
	assert.Equal(t, int64(2), resp.CurrentPage)
	assert.Len(t, resp.Juguetes, 2)
}

func TestProductsEndpoint_Search(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/juguetes?q=tren+01", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tren 01")
	assert.Contains(t, w.Body.String(), `"totalItems":1`)
}

func TestContactEndpoint_Validation(t *testing.T) {
	env := newTestEnv(t)

	missing := env.do(t, http.MethodPost, "/api/contacto", "", gin.H{"name": "Ana"})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Contains(t, missing.Body.String(), "Faltan campos requeridos")

	badEmail := env.do(t, http.MethodPost, "/api/contacto", "", gin.H{
		"name": "Ana", "email": "not-an-email", "message": "hola",
	})
	assert.Equal(t, http.StatusBadRequest, badEmail.Code)
	assert.Contains(t, badEmail.Body.String(), "correo electrónico")
}

func TestContactEndpoint_SubmitAndAdminRead(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin", "adminpw", domain.RoleAdmin)

	created := env.do(t, http.MethodPost, "/api/contacto", "", gin.H{
		"name": "Ana", "email": "ana@example.com", "message": "¿Tienen trenes?",
	})
	require.Equal(t, http.StatusCreated, created.Code)
	assert.Contains(t, created.Body.String(), "Gracias por contactarnos")

	token := env.loginToken(t, "admin", "adminpw")
	list := env.do(t, http.MethodGet, "/api/admin/mensajes", token, nil)
	require.Equal(t, http.StatusOK, list.Code)

	var messages []struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "ana@example.com", messages[0].Email)
}

func TestAdminMessages_AccessControl(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin", "adminpw", domain.RoleAdmin)
	env.seedUser(t, "carol", "carolpw", "customer")

	noToken := env.do(t, http.MethodGet, "/api/admin/mensajes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, noToken.Code)

	badToken := env.do(t, http.MethodGet, "/api/admin/mensajes", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, badToken.Code)

	carol := env.loginToken(t, "carol", "carolpw")
	wrongRole := env.do(t, http.MethodGet, "/api/admin/mensajes", carol, nil)
	assert.Equal(t, http.StatusForbidden, wrongRole.Code)
	assert.Contains(t, wrongRole.Body.String(), "rol de administrador")

	admin := env.loginToken(t, "admin", "adminpw")
	ok := env.do(t, http.MethodGet, "/api/admin/mensajes", admin, nil)
	assert.Equal(t, http.StatusOK, ok.Code)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
