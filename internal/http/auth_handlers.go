package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vehicletrack/internal/service"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"omitempty,min=2"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signup data"})
		return
	}

	if err := h.auth.Signup(c.Request.Context(), req.Email, req.Password, req.Name); err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "OTP sent to email"})
}

type requestOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) requestOTP(c *gin.Context) {
	var req requestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}

	if err := h.auth.RequestOTP(c.Request.Context(), req.Email); err != nil {
		var limited *service.RateLimitedError
		switch {
		case errors.As(err, &limited):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many OTP requests",
				"retryAfter": limited.RetryAfter.Milliseconds(),
			})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

func (h *Handler) verifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification data"})
		return
	}

	signed, err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrOTPMismatch), errors.Is(err, service.ErrOTPExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	OTP      string `json:"otp" binding:"required,len=6"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login data"})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, req.OTP)
	if err != nil {
		var limited *service.RateLimitedError
		switch {
		case errors.As(err, &limited):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many login attempts",
				"code":       "RATE_LIMIT_EXCEEDED",
				"retryAfter": limited.RetryAfter.Milliseconds(),
			})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, service.ErrOTPMismatch), errors.Is(err, service.ErrOTPExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired OTP"})
		default:
			h.internalError(c, err)
		}
		return
	}

	resp := gin.H{"token": result.Token}
	if result.LastLogin != nil {
		resp["lastLogin"] = result.LastLogin.UTC()
	} else {
		resp["lastLogin"] = nil
	}
	c.JSON(http.StatusOK, resp)
}
