package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/streamhub/identity-service/internal/api/metrics"
	"github.com/streamhub/identity-service/internal/core/domain"
	"github.com/streamhub/identity-service/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	resetService ports.ResetService
	userService  ports.UserService
}

func NewAuthHandler(authService ports.AuthService, resetService ports.ResetService, userService ports.UserService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
		userService:  userService,
	}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// loginRequest follows the OAuth2 password-grant form shape: the identifier
// travels in the username field and may be an email or a username.
type loginRequest struct {
	Identifier string `form:"username" json:"username" validate:"required"`
	Password   string `form:"password" json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	UserID      int64    `json:"user_id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
}

type forgotRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

type resetRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Signup registers a new user with the default USER role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      201   {object}  domain.User
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if err == domain.ErrUserExists {
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, user)
}

// Login authenticates by email or username and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Email or username"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	start := time.Now()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
		ClientIP:   c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	})
	metrics.LoginDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResultLabel(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: res.Token,
		TokenType:   "bearer",
		UserID:      res.User.ID,
		Username:    res.User.Username,
		Email:       res.User.Email,
		Roles:       res.Roles,
	})
}

// Me returns the authenticated identity with its current roles.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	roles, err := h.userService.RolesFor(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	user.Roles = roles

	return c.JSON(http.StatusOK, user)
}

// ForgotPassword starts the reset flow. The response is identical whether or
// not the identifier resolves, so accounts cannot be enumerated.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  forgotRequest  true  "Account identifier"
// @Success      202  {object}  messageResponse
// @Router       /auth/password/forgot [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.resetService.RequestReset(c.Request().Context(), req.Identifier); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("request", "rejected").Inc()
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("request", "ok").Inc()
	return c.JSON(http.StatusAccepted, messageResponse{
		Message: "if the account exists, a reset token has been issued",
	})
}

// ResetPassword redeems a reset token and installs the new password.
//
// @Summary      Confirm a password reset
// @Tags         auth
// @Accept       json
// @Param        body  body  resetRequest  true  "Reset token and new password"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.resetService.ConfirmReset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("confirm", "rejected").Inc()
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("confirm", "ok").Inc()
	return c.NoContent(http.StatusNoContent)
}

func loginResultLabel(err error) string {
	switch err {
	case domain.ErrInvalidCredentials:
		return "invalid_credentials"
	case domain.ErrAccountDisabled:
		return "disabled"
	case domain.ErrTooManyAttempts:
		return "throttled"
	default:
		return "error"
	}
}
