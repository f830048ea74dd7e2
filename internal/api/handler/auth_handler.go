package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ragevaluator/account-service/internal/core/domain"
	"github.com/ragevaluator/account-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RequestRegistrationOTP begins the OTP registration flow.
//
// @Summary      Request a registration OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registrationRequest  true  "Candidate account"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/request-registration-otp [post]
func (h *AuthHandler) RequestRegistrationOTP(c echo.Context) error {
	var req registrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.RegistrationInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Status:   domain.UserStatus(req.Status),
	}
	if err := h.authService.RequestRegistrationOTP(c.Request().Context(), input); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "OTP has been sent to your email"})
}

// VerifyRegistrationOTP verifies the registration OTP and creates the account.
//
// @Summary      Verify registration OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Email and OTP"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/verify-registration-otp [post]
func (h *AuthHandler) VerifyRegistrationOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.authService.VerifyRegistrationOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "Account created successfully! You can now log in."})
}

// Register is the legacy direct-registration endpoint, permanently disabled in
// favour of the OTP flow.
//
// @Summary      Disabled legacy registration
// @Tags         auth
// @Produce      json
// @Failure      400  {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	return echo.NewHTTPError(http.StatusBadRequest,
		"Please use /auth/request-registration-otp endpoint for registration")
}

// Login authenticates a user and returns a bearer access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Message:     "Login Successful",
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// RequestPasswordReset begins the OTP password-reset flow.
//
// @Summary      Request a password reset OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      requestResetRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/request-password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req requestResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "OTP has been sent to your email"})
}

// VerifyResetOTP verifies the reset OTP and returns a reset token.
//
// @Summary      Verify password reset OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Email and OTP"
// @Success      200   {object}  resetTokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyResetOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.VerifyResetOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resetTokenResponse{
		Message:    "OTP verified successfully",
		ResetToken: token,
	})
}

// ResetPassword consumes a reset token and replaces the account password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password has been successfully reset"})
}

// DeleteAccount deletes the authenticated caller's account.
//
// @Summary      Delete own account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/delete-account [delete]
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.authService.DeleteAccount(c.Request().Context(), userID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Account deleted successfully"})
}

// DeleteUserByID deletes an arbitrary account; admin only.
//
// @Summary      Delete a user by id
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string  true  "Target user id"
// @Success      200      {object}  messageResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /auth/delete-user/{user_id} [delete]
func (h *AuthHandler) DeleteUserByID(c echo.Context) error {
	_, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	targetID := c.Param("user_id")
	if targetID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	if err := h.authService.DeleteUserByID(c.Request().Context(), role, targetID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "User " + targetID + " deleted successfully"})
}
