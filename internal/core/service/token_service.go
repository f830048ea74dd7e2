package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ragevaluator/account-service/internal/core/domain"
)

// resetTokenType is the claim value discriminating reset tokens from access
// tokens signed with the same secret.
const resetTokenType = "reset"

// TokenService issues and verifies the two token flavours the service uses:
// login access tokens {sub: user id, role, exp} and single-purpose password
// reset tokens {sub: email, type: "reset", exp}. All tokens are HS256-signed
// with one process-wide secret; rotating the secret invalidates every
// outstanding token at once.
type TokenService struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

func NewTokenService(secret string, accessTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = domain.AccessTokenTTL
	}
	return &TokenService{secret: []byte(secret), accessTTL: accessTTL, now: time.Now}
}

// IssueAccess signs an access token for the given user. A non-positive ttl
// falls back to the service default.
func (s *TokenService) IssueAccess(subject, role string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.accessTTL
	}
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  s.now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyAccess validates signature and expiry and returns the decoded
// identity. A structurally valid token without a subject claim fails with
// domain.ErrMissingSubject.
func (s *TokenService) VerifyAccess(token string) (domain.AccessClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, s.keyFunc, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return domain.AccessClaims{}, domain.ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domain.AccessClaims{}, domain.ErrMissingSubject
	}
	role, _ := claims["role"].(string)
	return domain.AccessClaims{UserID: sub, Role: role}, nil
}

// IssueReset signs a short-lived reset token for email.
func (s *TokenService) IssueReset(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  email,
		"type": resetTokenType,
		"exp":  s.now().Add(domain.ResetTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyReset validates a reset token and returns its subject email. Tokens
// with a wrong or missing type discriminator are rejected so an access token
// can never authorize a password reset.
func (s *TokenService) VerifyReset(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, s.keyFunc, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidResetToken
	}
	if typ, _ := claims["type"].(string); typ != resetTokenType {
		return "", domain.ErrInvalidResetToken
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", domain.ErrInvalidResetToken
	}
	return email, nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return s.secret, nil
}
