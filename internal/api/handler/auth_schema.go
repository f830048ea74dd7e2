package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the envelope for operations whose only result is an
// acknowledgement.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type registrationRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=developer admin"`
	Status   string `json:"status"   validate:"omitempty,oneof=active inactive suspended deleted"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type requestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetTokenResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type identityResponse struct {
	Message string `json:"message"`
	User    struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	} `json:"user"`
}
