package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/vastra-shop/vastra/internal/shared"
)

// AdminUserID is the session identity for the single administrator.
const AdminUserID = "admin"

// Service validates the single administrator credential. The store has
// exactly one operator account, configured through the environment, so
// there is no user table behind this.
type Service struct {
	adminEmail   string
	passwordHash string
}

// NewService constructs a Service for the configured admin credential.
func NewService(adminEmail, passwordHash string) *Service {
	return &Service{
		adminEmail:   strings.ToLower(strings.TrimSpace(adminEmail)),
		passwordHash: passwordHash,
	}
}

// Authenticate validates email/password against the admin credential.
// The bcrypt comparison runs even on an email mismatch so both paths
// cost roughly the same.
func (s *Service) Authenticate(email, password string) error {
	emailOK := subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(strings.TrimSpace(email))),
		[]byte(s.adminEmail),
	) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password))
	if !emailOK || passErr != nil {
		return shared.ErrInvalidCredentials
	}
	return nil
}
