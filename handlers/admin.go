package handlers

import (
	"net/http"
	"strconv"

	auditRepo "homeserve/database/repository/audit"
	"homeserve/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Users  user.UserService
	Audit  auditRepo.AuditRepository
	Logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(us user.UserService, ar auditRepo.AuditRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Users: us, Audit: ar, Logger: logger}
}

// ListUsersHandler returns one page of accounts, newest first.
func (ah *AdminHandler) ListUsersHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	result, err := ah.Users.ListUsers(page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AssignRoleHandler grants a role to a user.
func (ah *AdminHandler) AssignRoleHandler(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}

	if err := ah.Users.AssignRole(c.GetString("userID"), c.Param("id"), req.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "role assigned"})
}

// RemoveRoleHandler strips a role from a user.
func (ah *AdminHandler) RemoveRoleHandler(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}

	if err := ah.Users.RemoveRole(c.GetString("userID"), c.Param("id"), req.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "role removed"})
}

// ListAuditLogsHandler returns recent audit entries, optionally filtered by
// log type.
func (ah *AdminHandler) ListAuditLogsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := ah.Audit.List(c.Query("type"), limit)
	if err != nil {
		ah.Logger.Error("Failed to list audit logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audit logs"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
