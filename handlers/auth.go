package handlers

import (
	"errors"
	"net/http"

	"datex/middleware"
	"datex/services/user"
	"datex/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	Service user.UserService
}

func NewAuthHandler(svc user.UserService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type googleSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type deviceTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegisterHandler handles POST /api/auth/register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", bindingErrorMessage(err))
		return
	}

	resp, err := h.Service.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailInUse):
			utils.JSONError(c, http.StatusConflict, "Registration failed", err.Error())
		case errors.Is(err, user.ErrInvalidEmail), errors.Is(err, user.ErrWeakPassword):
			utils.JSONError(c, http.StatusBadRequest, "Validation failed", err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "Registration failed", err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", bindingErrorMessage(err))
		return
	}

	resp, err := h.Service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "Login failed", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GoogleSignInHandler handles POST /api/auth/google.
func (h *AuthHandler) GoogleSignInHandler(c *gin.Context) {
	var req googleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", bindingErrorMessage(err))
		return
	}

	resp, err := h.Service.GoogleSignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Google sign-in failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LogoutHandler handles POST /api/auth/logout.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	if err := h.Service.Logout(c.Request.Context(), userID); err != nil {
		utils.GetLogger().Error("Logout failed", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Logout failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// MeHandler handles GET /api/auth/me.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	account, err := h.Service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "User not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, account)
}

// DeviceTokenHandler handles PUT /api/auth/device-token.
func (h *AuthHandler) DeviceTokenHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	var req deviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", bindingErrorMessage(err))
		return
	}

	if err := h.Service.RegisterDeviceToken(c.Request.Context(), userID, req.Token); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to register device token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device token registered"})
}
