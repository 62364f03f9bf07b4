package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
	debug   bool
}

// NewAuthHandlers creates new auth handlers. In debug mode verification
// tokens and reset codes are echoed back to the client.
func NewAuthHandlers(authSvc domain.AuthService, debug bool) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc, debug: debug}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Location  string `json:"location"`
}

// LoginRequest represents login request. Either email or phone identifies the account.
type LoginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Phone
}

// RefreshRequest represents token refresh and logout requests
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func identifierOf(email, phone string) string {
	if email != "" {
		return email
	}
	return phone
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	reg, err := h.authSvc.Register(c.Request.Context(), domain.RegisterInput{
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Location:  req.Location,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	verification := gin.H{
		"expires_at": reg.Token.ExpiresAt.Format(time.RFC3339),
	}
	if h.debug {
		verification["token"] = reg.Token.Token
	}
	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message":      "Registration successful. Check your inbox to verify your account.",
			"user":         newUserResponse(reg.User),
			"verification": verification,
		},
	})
}

// Verify consumes an email verification token
func (h *AuthHandlers) Verify(c *gin.Context) {
	user, err := h.authSvc.VerifyEmail(c.Request.Context(), c.Query("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Email verified successfully.",
			"user":    newUserResponse(user),
		},
	})
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.identifier(), req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tokenBody(result)})
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tokenBody(result)})
}

// Logout revokes the session behind the refresh token
func (h *AuthHandlers) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Logged out successfully."}})
}

// ForgotPassword issues a reset code by email, or by SMS for phone-only accounts
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	otp, err := h.authSvc.ForgotPassword(c.Request.Context(), identifierOf(req.Email, req.Phone))
	if err != nil {
		writeError(c, err)
		return
	}

	body := gin.H{
		"message":    "A reset code has been sent.",
		"expires_at": otp.ExpiresAt.Format(time.RFC3339),
	}
	if h.debug {
		body["code"] = otp.Code
	}
	c.JSON(http.StatusOK, gin.H{"data": body})
}

// ResetPassword sets a new password with a valid code
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.authSvc.ResetPassword(c.Request.Context(), identifierOf(req.Email, req.Phone), req.Code, req.NewPassword)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Password has been reset."}})
}

// Me returns the current user's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	current := middleware.CurrentUser(c)
	if current == nil {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), current.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newUserResponse(user)})
}

func tokenBody(result *domain.AuthResult) gin.H {
	return gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    result.ExpiresIn,
		"user":          newUserResponse(result.User),
	}
}
