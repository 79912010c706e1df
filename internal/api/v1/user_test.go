package v1

import (
	"net/http"
	"testing"

	"taskflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersAdminOnly(t *testing.T) {
	app, _ := CreateTestApp(t)
	admin, _ := loginAdmin(t, app)
	manager, _ := loginManager(t, app)

	resp := doJSON(t, app, "GET", "/api/users", manager, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/users", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []map[string]interface{}
	decodeInto(t, resp, &users)
	assert.Len(t, users, 3)
	for _, u := range users {
		assert.NotContains(t, u, "password")
	}
}

func TestCreateUserByAdmin(t *testing.T) {
	app, _ := CreateTestApp(t)
	admin, _ := loginAdmin(t, app)
	manager, _ := loginManager(t, app)

	body := map[string]string{"email": "lead@x.com", "password": "pw", "role": "MANAGER"}
	resp := doJSON(t, app, "POST", "/api/users", manager, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/users", admin, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user models.PublicUser
	decodeInto(t, resp, &user)
	assert.Equal(t, models.RoleManager, user.Role)
	assert.Equal(t, "lead@x.com", user.FullName)

	resp = doJSON(t, app, "POST", "/api/users", admin, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/users", admin, map[string]string{"email": "x@x.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/users", admin, map[string]string{"email": "x@x.com", "password": "pw", "role": "ROOT"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// user baru bisa login
	login(t, app, "lead@x.com", "pw")
}

func TestDeleteUserRules(t *testing.T) {
	app, _ := CreateTestApp(t)
	admin, adminID := loginAdmin(t, app)
	manager, managerID := loginManager(t, app)
	employee, employeeID := loginEmployee(t, app)

	cases := []struct {
		name   string
		token  string
		target string
		status int
	}{
		{"admin deletes self", admin, adminID, http.StatusBadRequest},
		{"manager deletes self", manager, managerID, http.StatusBadRequest},
		{"employee deletes self", employee, employeeID, http.StatusBadRequest},
		{"manager deletes admin", manager, adminID, http.StatusForbidden},
		{"employee deletes manager", employee, managerID, http.StatusForbidden},
		{"admin deletes unknown", admin, "missing", http.StatusNotFound},
		{"manager deletes employee", manager, employeeID, http.StatusOK},
		{"admin deletes manager", admin, managerID, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, "DELETE", "/api/users/"+tc.target, tc.token, nil)
			assert.Equal(t, tc.status, resp.StatusCode)
			resp.Body.Close()
		})
	}
}
