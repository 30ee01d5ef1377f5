package ports

import "github.com/coursehub/course-management/internal/core/domain"

// Claims is the identity asserted by a verified token. Role is the role the
// user held at issuance, not a fresh lookup.
type Claims struct {
	SubjectID string
	Name      string
	Role      domain.Role
}

// TokenService issues and verifies stateless bearer tokens. There is no
// revocation path; a token stays valid until expiry.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (*Claims, error)
}
