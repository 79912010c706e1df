package v1

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"taskflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskReportCSV(t *testing.T) {
	app, _ := CreateTestApp(t)
	admin, _ := loginAdmin(t, app)

	resp := doJSON(t, app, "POST", "/api/tasks", admin, map[string]string{"title": `Say "hi"`})
	var created models.Task
	decodeInto(t, resp, &created)

	resp = doJSON(t, app, "GET", "/api/reports/tasks?format=csv", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	lines := strings.Split(string(raw), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,title,status,assigneeId,createdAt", lines[0])
	assert.Contains(t, lines, created.ID+`,"Say ""hi""",TODO,,`+itoa(created.CreatedAt))
}

func TestTaskReportJSON(t *testing.T) {
	app, _ := CreateTestApp(t)
	employee, _ := loginEmployee(t, app)

	resp := doJSON(t, app, "GET", "/api/reports/tasks?format=json", employee, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, float64(2), body["total"])
	assert.Len(t, body["rows"], 2)
}

func TestDashboardSummary(t *testing.T) {
	app, _ := CreateTestApp(t)
	employee, _ := loginEmployee(t, app)

	resp := doJSON(t, app, "GET", "/api/dashboard/summary", employee, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, float64(2), body["totalTasks"])
	assert.Equal(t, float64(3), body["users"])
	assert.Len(t, body["byStatus"], 2)
}

func TestAuditListAdminOnly(t *testing.T) {
	app, _ := CreateTestApp(t)
	admin, _ := loginAdmin(t, app)
	manager, _ := loginManager(t, app)

	resp := doJSON(t, app, "POST", "/api/tasks", manager, map[string]string{"title": "Audited"})
	var created models.Task
	decodeInto(t, resp, &created)

	resp = doJSON(t, app, "GET", "/api/audit", manager, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/audit", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []models.AuditRecord
	decodeInto(t, resp, &records)
	require.Len(t, records, 1)
	assert.Equal(t, "CREATE_TASK", records[0].Action)
	assert.Equal(t, created.ID, records[0].Target)
}

func TestEventStreamRequiresUpgrade(t *testing.T) {
	app, _ := CreateTestApp(t)
	resp := doJSON(t, app, "GET", "/ws/events", "", nil)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
