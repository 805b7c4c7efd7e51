package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/plantops/plantops/modules/core/domain/aggregates/user"
	"github.com/plantops/plantops/modules/core/services"
	"github.com/plantops/plantops/modules/core/testhelpers"
	"github.com/plantops/plantops/pkg/composables"
)

func newAuthService(t *testing.T) (*services.AuthService, *testhelpers.UserRepository) {
	t.Helper()
	users := testhelpers.NewUserRepository()
	return services.NewAuthService(users, services.AuthOptions{Secret: "test-secret", TTL: time.Hour}), users
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, services.RegisterInput{Name: " Ada ", Email: "Ada@Example.com", Password: "s3cret"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, "Ada", res.User.Name)
	require.Equal(t, "ada@example.com", res.User.Email)

	stored, err := users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", stored.PasswordHash)

	login, err := svc.Login(ctx, "ADA@example.com ", "s3cret")
	require.NoError(t, err)
	require.Equal(t, res.User.ID, login.User.ID)

	principal, err := svc.Verify(login.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, principal.UserID)
	require.Equal(t, "ada@example.com", principal.Email)
}

func TestAuthService_RegisterErrors(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, services.RegisterInput{Name: "Ada", Email: "", Password: "x"})
	require.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = svc.Register(ctx, services.RegisterInput{Name: "Ada", Email: "not-an-email", Password: "x"})
	require.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = svc.Register(ctx, services.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, services.RegisterInput{Name: "Other", Email: "ADA@example.com", Password: "y"})
	require.ErrorIs(t, err, services.ErrUserExists)
}

func TestAuthService_LoginErrors(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "nobody@example.com", "x")
	require.ErrorIs(t, err, services.ErrUserNotFound)

	_, err = svc.Register(ctx, services.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "right"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	require.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_VerifyRejectsBadTokens(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Verify("garbage")
	require.ErrorIs(t, err, services.ErrInvalidToken)

	other := services.NewAuthService(testhelpers.NewUserRepository(), services.AuthOptions{Secret: "other"})
	token, err := other.IssueToken(&user.User{ID: 1, Email: "a@b.c"})
	require.NoError(t, err)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_VerifyRejectsExpiredTokens(t *testing.T) {
	users := testhelpers.NewUserRepository()
	issuer := services.NewAuthService(users, services.AuthOptions{Secret: "s", TTL: time.Millisecond})
	token, err := issuer.IssueToken(&user.User{ID: 7, Email: "a@b.c"})
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_Me(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Me(ctx)
	require.ErrorIs(t, err, services.ErrInvalidToken)

	res, err := svc.Register(ctx, services.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)

	me, err := svc.Me(composables.WithPrincipal(ctx, &composables.Principal{UserID: res.User.ID}))
	require.NoError(t, err)
	require.Equal(t, "Ada", me.Name)

	_, err = svc.Me(composables.WithPrincipal(ctx, &composables.Principal{UserID: 999}))
	require.ErrorIs(t, err, services.ErrUserNotFound)
}
