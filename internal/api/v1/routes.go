package v1

import (
	"taskflow/internal/api/v1/handlers"
	"taskflow/internal/auth"
	"taskflow/internal/middleware"
	"taskflow/internal/policy"

	"github.com/gofiber/fiber/v2"
)

// guard membuat middleware role dari tabel policy untuk satu action.
func guard(action policy.Action) fiber.Handler {
	return middleware.RequireRoles(policy.Roles(action)...)
}

func RegisterRoutes(app *fiber.App, h *handlers.Handler, issuer *auth.Issuer) {
	api := app.Group("/api")
	useToken := middleware.UseToken(issuer)

	// Auth
	api.Post("/auth/login", h.Login)
	api.Get("/me", useToken, guard(policy.ViewOwnProfile), h.Me)

	// User
	api.Post("/users/signup", h.Signup)
	userRoutes := api.Group("/users", useToken)
	userRoutes.Get("/", guard(policy.ListUsers), h.ListUsers)
	userRoutes.Post("/", guard(policy.CreateUser), h.CreateUser)
	// Tanpa guard role: hapus diri sendiri harus 400 untuk semua role.
	userRoutes.Delete("/:id", h.DeleteUser)

	// Task
	taskRoutes := api.Group("/tasks", useToken)
	taskRoutes.Get("/", guard(policy.ListTasks), h.ListTasks)
	taskRoutes.Get("/:id", guard(policy.ViewTask), h.GetTask)
	taskRoutes.Post("/", guard(policy.CreateTask), h.CreateTask)
	taskRoutes.Patch("/:id", guard(policy.UpdateTask), h.PatchTask)
	taskRoutes.Delete("/:id", guard(policy.DeleteTask), h.DeleteTask)

	// File
	fileRoutes := api.Group("/files", useToken)
	fileRoutes.Post("/", guard(policy.UploadFile), h.UploadFile)
	fileRoutes.Get("/", guard(policy.ListFiles), h.ListFiles)
	fileRoutes.Get("/:id", guard(policy.ViewFile), h.GetFile)
	fileRoutes.Put("/:id", guard(policy.UpdateFile), h.AddFileVersion)

	// Message
	messageRoutes := api.Group("/messages", useToken)
	messageRoutes.Get("/", guard(policy.ListMessages), h.ListMessages)
	messageRoutes.Post("/", guard(policy.CreateMessage), h.CreateMessage)

	// Report, dashboard, audit
	api.Get("/reports/tasks", useToken, guard(policy.ViewReports), h.TaskReport)
	api.Get("/dashboard/summary", useToken, guard(policy.ViewDashboard), h.DashboardSummary)
	api.Get("/audit", useToken, guard(policy.ListAudit), h.ListAudit)

	// WebSocket audit event stream
	app.Get("/ws/events", h.EventsAuth, h.Events())
}
