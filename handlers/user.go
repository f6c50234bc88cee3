package handlers

import (
	"net/http"

	"homeserve/services/user"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes account signup, signin and profile lookup.
type UserHandler struct {
	Users user.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us user.UserService) *UserHandler {
	return &UserHandler{Users: us}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

// SignUpHandler registers a customer account and returns a session token.
func (uh *UserHandler) SignUpHandler(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	usr, token, err := uh.Users.SignUp(req.Email, req.Name, req.Password, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": usr, "token": token})
}

// SignInHandler verifies credentials and returns a session token.
func (uh *UserHandler) SignInHandler(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	usr, token, err := uh.Users.SignIn(req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": usr, "token": token})
}

// MeHandler returns the authenticated user's profile.
func (uh *UserHandler) MeHandler(c *gin.Context) {
	usr, err := uh.Users.GetByID(c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}
