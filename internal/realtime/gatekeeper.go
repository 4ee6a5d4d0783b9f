package realtime

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/lib/jwt"
	"github.com/14kear/livepoll/internal/services/auth"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Principal, error)
}

// Gatekeeper admits a real-time connection once, before it may touch any room.
type Gatekeeper struct {
	auth Authenticator
}

func NewGatekeeper(auth Authenticator) *Gatekeeper {
	return &Gatekeeper{auth: auth}
}

// Admit resolves the handshake credential to a principal. The token comes from
// the "token" query parameter or an "Authorization: Bearer" header.
func (g *Gatekeeper) Admit(r *http.Request) (models.Principal, error) {
	const op = "realtime.Gatekeeper.Admit"

	token := TokenFromRequest(r)
	if token == "" {
		return models.Principal{}, fmt.Errorf("%s: %w", op, auth.ErrMissingToken)
	}

	principal, err := g.auth.Authenticate(r.Context(), token)
	if err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w", op, err)
	}

	return principal, nil
}

func TokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}

	return jwt.BearerToken(r.Header.Get("Authorization"))
}
