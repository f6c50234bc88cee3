package user

import (
	"errors"

	userRepo "homeserve/database/repository/user"
	"homeserve/models"
	"homeserve/services/scheduling"

	"go.uber.org/zap"
)

// ListUsers returns one page of accounts, newest first.
func (s *DefaultUserService) ListUsers(page, perPage int) (*models.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	result, err := s.Repo.List(page, perPage)
	if err != nil {
		return nil, scheduling.NewPersistenceError("user listing failed", err)
	}
	return result, nil
}

// AssignRole adds a role to a user and records the change.
func (s *DefaultUserService) AssignRole(actorID, userID, role string) error {
	if !validRoles[role] {
		return scheduling.NewValidationError("unknown role %q", role)
	}
	if err := s.Repo.AddRole(userID, role); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return scheduling.NewNotFoundError("user %s not found", userID)
		}
		return scheduling.NewPersistenceError("role assignment failed", err)
	}
	s.appendAudit(actorID, "admin", "assign_role", "", map[string]any{
		"target_user": userID,
		"role":        role,
	})
	s.Logger.Info("role assigned",
		zap.String("actorID", actorID),
		zap.String("userID", userID),
		zap.String("role", role))
	return nil
}

// RemoveRole strips a role from a user and records the change.
func (s *DefaultUserService) RemoveRole(actorID, userID, role string) error {
	if !validRoles[role] {
		return scheduling.NewValidationError("unknown role %q", role)
	}
	if err := s.Repo.RemoveRole(userID, role); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return scheduling.NewNotFoundError("user %s not found", userID)
		}
		return scheduling.NewPersistenceError("role removal failed", err)
	}
	s.appendAudit(actorID, "admin", "remove_role", "", map[string]any{
		"target_user": userID,
		"role":        role,
	})
	return nil
}
