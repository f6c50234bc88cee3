package user

import (
	"errors"
	"strings"
	"time"

	auditRepo "homeserve/database/repository/audit"
	userRepo "homeserve/database/repository/user"
	"homeserve/models"
	"homeserve/services/scheduling"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// UserService covers account signup/signin and the admin user-management
// surface.
type UserService interface {
	SignUp(email, name, password, ipAddress string) (*models.User, string, error)
	SignIn(email, password, ipAddress string) (*models.User, string, error)
	GetByID(id string) (*models.User, error)

	ListUsers(page, perPage int) (*models.UserPage, error)
	AssignRole(actorID, userID, role string) error
	RemoveRole(actorID, userID, role string) error
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Audit  auditRepo.AuditRepository
	Tokens *utils.TokenManager
	Logger *zap.Logger
}

var validRoles = map[string]bool{
	models.RoleCustomer: true,
	models.RoleProvider: true,
	models.RoleAdmin:    true,
}

// SignUp creates an account with the customer role and returns a signed token.
func (s *DefaultUserService) SignUp(email, name, password, ipAddress string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", scheduling.NewValidationError("invalid email address")
	}
	if len(password) < 8 {
		return nil, "", scheduling.NewValidationError("password must be at least 8 characters")
	}

	if existing, err := s.Repo.GetByEmail(email); err == nil && existing != nil {
		return nil, "", scheduling.NewValidationError("email already registered")
	} else if err != nil && !errors.Is(err, userRepo.ErrNotFound) {
		return nil, "", scheduling.NewPersistenceError("user lookup failed", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", scheduling.NewPersistenceError("password hashing failed", err)
	}

	usr := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Roles:        []string{models.RoleCustomer},
		Metadata:     map[string]any{"login_count": 0},
	}
	if err := s.Repo.Create(usr); err != nil {
		return nil, "", scheduling.NewPersistenceError("user creation failed", err)
	}

	s.appendAudit(usr.ID, "auth", "signup", ipAddress, nil)

	token, err := s.Tokens.Generate(usr.ID, usr.Email, usr.Roles, tokenTTL)
	if err != nil {
		return nil, "", scheduling.NewPersistenceError("token generation failed", err)
	}
	return usr, token, nil
}

// SignIn verifies credentials, stamps login metadata, and returns a signed
// token.
func (s *DefaultUserService) SignIn(email, password, ipAddress string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	usr, err := s.Repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, "", scheduling.NewValidationError("invalid credentials")
		}
		return nil, "", scheduling.NewPersistenceError("user lookup failed", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		s.appendAudit(usr.ID, "auth", "login_failed", ipAddress, nil)
		return nil, "", scheduling.NewValidationError("invalid credentials")
	}

	if err := s.Repo.RecordLogin(usr.ID); err != nil {
		s.Logger.Warn("failed to record login", zap.String("userID", usr.ID), zap.Error(err))
	}
	s.appendAudit(usr.ID, "auth", "login", ipAddress, nil)

	token, err := s.Tokens.Generate(usr.ID, usr.Email, usr.Roles, tokenTTL)
	if err != nil {
		return nil, "", scheduling.NewPersistenceError("token generation failed", err)
	}
	return usr, token, nil
}

// GetByID fetches a user.
func (s *DefaultUserService) GetByID(id string) (*models.User, error) {
	usr, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, scheduling.NewNotFoundError("user %s not found", id)
		}
		return nil, scheduling.NewPersistenceError("user lookup failed", err)
	}
	return usr, nil
}

func (s *DefaultUserService) appendAudit(userID, logType, action, ipAddress string, details map[string]any) {
	entry := &models.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		LogType:   logType,
		Action:    action,
		Details:   details,
		Severity:  models.SeverityInfo,
		IPAddress: ipAddress,
	}
	if err := s.Audit.Append(entry); err != nil {
		s.Logger.Warn("failed to append audit log",
			zap.String("action", action), zap.Error(err))
	}
}
