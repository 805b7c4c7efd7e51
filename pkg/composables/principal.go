package composables

import (
	"context"
	"errors"

	"github.com/plantops/plantops/pkg/constants"
)

var ErrNoPrincipal = errors.New("no authenticated user found in context")

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserID int64
	Email  string
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, constants.PrincipalKey, p)
}

func UsePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(constants.PrincipalKey).(*Principal)
	if !ok || p == nil {
		return nil, ErrNoPrincipal
	}
	return p, nil
}
