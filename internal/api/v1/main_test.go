package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskflow/configs"
	"taskflow/internal/api/v1/handlers"
	"taskflow/internal/config"
	"taskflow/internal/middleware"
	"taskflow/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// CreateTestApp menginisialisasi aplikasi Fiber di atas store memory yang
// sudah berisi user demo.
func CreateTestApp(t *testing.T) (*fiber.App, *config.Dependencies) {
	t.Helper()
	store := repository.NewStore(repository.NewMemoryBackend())
	require.NoError(t, repository.Seed(context.Background(), store))

	deps := config.NewDependencies(store, configs.Config{JWTSecret: "test-secret", TokenTTL: time.Hour})
	app := fiber.New(fiber.Config{ErrorHandler: middleware.FiberErrorHandler})
	app.Use(middleware.ErrorHandler())
	RegisterRoutes(app, handlers.New(deps.Services, deps.Issuer, deps.Hub), deps.Issuer)
	return app, deps
}

// doJSON mengirim request dengan body JSON dan token opsional.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	decodeInto(t, resp, &body)
	return body
}

// login mengembalikan token dan id user untuk kredensial demo.
func login(t *testing.T, app *fiber.App, email, password string) (string, string) {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]interface{})
	return token, user["id"].(string)
}

func loginAdmin(t *testing.T, app *fiber.App) (string, string) {
	return login(t, app, "admin@local", "Admin@123")
}

func loginManager(t *testing.T, app *fiber.App) (string, string) {
	return login(t, app, "manager@local", "Manager@123")
}

func loginEmployee(t *testing.T, app *fiber.App) (string, string) {
	return login(t, app, "employee@local", "Employee@123")
}
