package services

import (
	"context"
	"fmt"

	"taskflow/internal/apierror"
	"taskflow/internal/auth"
	"taskflow/internal/models"
	"taskflow/internal/policy"
	"taskflow/internal/repository"
	"taskflow/pkg/logger"

	"go.uber.org/zap"
)

type SignupInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullName" validate:"required"`
	// Role is accepted for compatibility and ignored: signups are always EMPLOYEE.
	Role string `json:"role"`
}

type CreateUserInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullName"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MANAGER EMPLOYEE"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the token plus the authenticated user.
type LoginResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type UserService struct {
	store  *repository.Store
	audit  *AuditService
	issuer *auth.Issuer
}

func NewUserService(store *repository.Store, audit *AuditService, issuer *auth.Issuer) *UserService {
	return &UserService{store: store, audit: audit, issuer: issuer}
}

func (s *UserService) List(ctx context.Context) ([]models.PublicUser, error) {
	users := []models.PublicUser{}
	err := s.store.View(ctx, func(doc *models.Document) error {
		for _, u := range doc.Users {
			users = append(users, u.Public())
		}
		return nil
	})
	return users, err
}

// Signup registers an EMPLOYEE account. The audit record has no actor.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (models.PublicUser, error) {
	if err := validateInput(input); err != nil {
		return models.PublicUser{}, err
	}
	return s.insert(ctx, ActionEmployeeSignup, nil, models.User{
		Email:    input.Email,
		FullName: input.FullName,
		Role:     models.RoleEmployee,
	}, input.Password, "User already exists")
}

// Create lets an ADMIN add a user with an explicit role.
func (s *UserService) Create(ctx context.Context, actor Actor, input CreateUserInput) (models.PublicUser, error) {
	if !policy.Allowed(actor.Role, policy.CreateUser) {
		return models.PublicUser{}, apierror.Forbidden("Forbidden")
	}
	if err := validateInput(input); err != nil {
		return models.PublicUser{}, err
	}
	fullName := input.FullName
	if fullName == "" {
		fullName = input.Email
	}
	return s.insert(ctx, ActionCreateUser, actorRef(actor), models.User{
		Email:    input.Email,
		FullName: fullName,
		Role:     models.Role(input.Role),
	}, input.Password, "User exists")
}

func (s *UserService) insert(ctx context.Context, action string, by *string, user models.User, password, conflictMsg string) (models.PublicUser, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash

	err = s.audit.mutate(ctx, action, by, func(doc *models.Document, now int64) (string, error) {
		if _, exists := doc.FindUserByEmail(user.Email); exists {
			logger.SecurityLogger.Warn("Duplicate email", zap.String("email", user.Email))
			return "", apierror.Conflict(conflictMsg)
		}
		user.ID = repository.NewID()
		user.CreatedAt = now
		doc.Users = append(doc.Users, user)
		return user.ID, nil
	})
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// Delete removes a user subject to policy.CanDeleteUser.
func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	return s.audit.mutate(ctx, ActionDeleteUser, actorRef(actor), func(doc *models.Document, _ int64) (string, error) {
		i, ok := doc.FindUser(id)
		if !ok {
			return "", apierror.NotFound("Not found")
		}
		if err := policy.CanDeleteUser(actor.ID, actor.Role, doc.Users[i]); err != nil {
			logger.SecurityLogger.Warn("User deletion denied",
				zap.String("actor", actor.ID), zap.String("role", string(actor.Role)), zap.String("target", id), zap.Error(err))
			return "", err
		}
		doc.Users = append(doc.Users[:i], doc.Users[i+1:]...)
		return id, nil
	})
}

// Login checks the credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	if err := validateInput(input); err != nil {
		return LoginResult{}, apierror.BadRequest("email+password required")
	}

	var user models.User
	found := false
	err := s.store.View(ctx, func(doc *models.Document) error {
		if i, ok := doc.FindUserByEmail(input.Email); ok {
			user, found = doc.Users[i], true
		}
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}
	if !found || !auth.CheckPassword(user.Password, input.Password) {
		logger.SecurityLogger.Warn("Invalid credentials", zap.String("email", input.Email))
		return LoginResult{}, apierror.Unauthorized("Invalid credentials")
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}
	logger.AuditLogger.Info("Login success", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return LoginResult{Token: token, User: user.Public()}, nil
}
