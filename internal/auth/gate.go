package auth

import (
	"context"
	"strings"

	"github.com/rollabike/storefront/internal/domain"
)

// RoleResolver is the subset of the user repository the gate needs.
// Defined here (point of use) so tests can inject a fake.
type RoleResolver interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Grant is the narrowed context a request carries once a stage allows it.
// Role stays zero until the admin stage resolves it.
type Grant struct {
	Identity string
	Claims   Claims
	Role     domain.Role
}

// Gate is the per-request decision pipeline: authenticate, then optionally
// require the admin role. Each stage either narrows the grant or returns a
// terminal denial; nothing downstream runs on denial.
type Gate struct {
	codec *Codec
	roles RoleResolver
}

func NewGate(codec *Codec, roles RoleResolver) *Gate {
	return &Gate{codec: codec, roles: roles}
}

// Authenticate verifies the Authorization header and, when the caller also
// claims an identity (query or path parameter), reconciles it against the
// token's. A valid token for one user must not act on another's resources.
//
// Denials: missing/malformed header -> ErrCredentialMissing (401);
// failed verification -> ErrTokenInvalid (403); identity mismatch ->
// ErrIdentityMismatch (403).
func (g *Gate) Authenticate(authorization, claimedEmail string) (*Grant, error) {
	token, ok := splitCredential(authorization)
	if !ok {
		return nil, domain.ErrCredentialMissing
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	identity := claims.Email()
	if identity == "" {
		return nil, domain.ErrTokenInvalid
	}

	if claimedEmail != "" && claimedEmail != identity {
		return nil, domain.ErrIdentityMismatch
	}

	return &Grant{Identity: identity, Claims: claims}, nil
}

// RequireAdmin resolves the grant's role and denies unless it is admin.
// A missing user record denies with ErrUserNotFound (fail closed).
func (g *Gate) RequireAdmin(ctx context.Context, grant *Grant) (*Grant, error) {
	role, err := g.ResolveRole(ctx, grant.Identity)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin {
		return nil, domain.ErrRoleInsufficient
	}

	narrowed := *grant
	narrowed.Role = role
	return &narrowed, nil
}

// ResolveRole looks up the identity's role. Records written without a role
// field resolve to RoleUser.
func (g *Gate) ResolveRole(ctx context.Context, email string) (domain.Role, error) {
	user, err := g.roles.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user.Role == "" {
		return domain.RoleUser, nil
	}
	return user.Role, nil
}

// splitCredential parses a "<scheme> <token>" header and returns the token.
func splitCredential(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	return parts[1], true
}
