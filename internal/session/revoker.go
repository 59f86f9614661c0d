package session

import (
	"context"
	"time"
)

// Revoker tracks revoked token ids (jti claims) so logout actually ends a
// session before the JWT expires. Entries only need to live as long as the
// token they shadow.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
