// Package policy is the role-based authorization table. Every decision is a
// pure function of the caller's role (and, for user deletion, the target).
package policy

import (
	"taskflow/internal/apierror"
	"taskflow/internal/models"
)

type Action string

const (
	ListTasks      Action = "tasks.list"
	ViewTask       Action = "tasks.view"
	CreateTask     Action = "tasks.create"
	UpdateTask     Action = "tasks.update"
	DeleteTask     Action = "tasks.delete"
	ListUsers      Action = "users.list"
	CreateUser     Action = "users.create"
	DeleteUser     Action = "users.delete"
	ListAudit      Action = "audit.list"
	StreamEvents   Action = "events.stream"
	UploadFile     Action = "files.upload"
	UpdateFile     Action = "files.update"
	ListFiles      Action = "files.list"
	ViewFile       Action = "files.view"
	ListMessages   Action = "messages.list"
	CreateMessage  Action = "messages.create"
	ViewReports    Action = "reports.view"
	ViewDashboard  Action = "dashboard.view"
	ViewOwnProfile Action = "me.view"
)

var (
	everyone     = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleEmployee}
	adminManager = []models.Role{models.RoleAdmin, models.RoleManager}
	adminOnly    = []models.Role{models.RoleAdmin}
)

var table = map[Action][]models.Role{
	ListTasks:      everyone,
	ViewTask:       everyone,
	CreateTask:     adminManager,
	UpdateTask:     everyone,
	DeleteTask:     adminOnly,
	ListUsers:      adminOnly,
	CreateUser:     adminOnly,
	DeleteUser:     adminManager,
	ListAudit:      adminOnly,
	StreamEvents:   adminOnly,
	UploadFile:     everyone,
	UpdateFile:     everyone,
	ListFiles:      everyone,
	ViewFile:       everyone,
	ListMessages:   everyone,
	CreateMessage:  everyone,
	ViewReports:    everyone,
	ViewDashboard:  everyone,
	ViewOwnProfile: everyone,
}

// Roles returns the roles allowed to perform action. Unknown actions allow
// nobody.
func Roles(action Action) []models.Role {
	return append([]models.Role(nil), table[action]...)
}

// Allowed reports whether role may perform action. Roles outside the three
// known values are always denied.
func Allowed(role models.Role, action Action) bool {
	for _, r := range table[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Task fields writable through a partial update.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldAssigneeID  = "assigneeId"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldDueDate     = "dueDate"
)

var allTaskFields = []string{FieldTitle, FieldDescription, FieldAssigneeID, FieldStatus, FieldPriority, FieldDueDate}

// TaskFields lists the task fields role may write. EMPLOYEE may only move the
// status; unknown roles get nothing.
func TaskFields(role models.Role) []string {
	switch role {
	case models.RoleAdmin, models.RoleManager:
		return append([]string(nil), allTaskFields...)
	case models.RoleEmployee:
		return []string{FieldStatus}
	default:
		return nil
	}
}

// CanDeleteUser decides whether actor may delete target. Self-deletion is a
// bad request for everyone; a MANAGER may only remove EMPLOYEE accounts.
func CanDeleteUser(actorID string, actorRole models.Role, target models.User) error {
	if actorID == target.ID {
		return apierror.BadRequest("Cannot delete yourself")
	}
	switch actorRole {
	case models.RoleAdmin:
		return nil
	case models.RoleManager:
		if target.Role != models.RoleEmployee {
			return apierror.Forbidden("Managers can only remove employees")
		}
		return nil
	default:
		return apierror.Forbidden("Forbidden")
	}
}
