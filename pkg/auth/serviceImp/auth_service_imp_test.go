package serviceImp

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"herbal/database"
	"herbal/pkg/auth/repositoryImp"
	"herbal/pkg/auth/service"
)

func newAuth(t *testing.T) *authSvc {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	if err != nil {
		t.Fatal(err)
	}
	svc := New(repositoryImp.New(db), "test-secret", time.Hour).(*authSvc)
	if err := svc.EnsureAdmin(context.Background(), "Admin@Herbal.test", "rahasia123"); err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newAuth(t)
	sess, err := svc.Login(context.Background(), " admin@herbal.test ", "rahasia123")
	assert.Equal(t, err, nil)
	assert.Equal(t, sess.Email, "admin@herbal.test")

	email, err := svc.Verify(sess.Token)
	assert.Equal(t, err, nil)
	assert.Equal(t, email, "admin@herbal.test")
}

func TestLoginErrors(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "not-an-email", "x")
	assert.Equal(t, err, service.ErrInvalidEmail)
	_, err = svc.Login(ctx, "nobody@herbal.test", "rahasia123")
	assert.Equal(t, err, service.ErrInvalidCredential)
	_, err = svc.Login(ctx, "admin@herbal.test", "salah")
	assert.Equal(t, err, service.ErrInvalidCredential)
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	svc := newAuth(t)
	sess, err := svc.Login(context.Background(), "admin@herbal.test", "rahasia123")
	assert.Equal(t, err, nil)

	later := time.Now().Add(2 * time.Hour)
	svc.now = func() time.Time { return later }
	_, err = svc.Verify(sess.Token)
	assert.Equal(t, err, service.ErrInvalidToken)

	svc.now = time.Now
	other := New(nil, "other-secret", time.Hour)
	_, err = other.Verify(sess.Token)
	assert.Equal(t, err, service.ErrInvalidToken)
	_, err = svc.Verify("garbage")
	assert.Equal(t, err, service.ErrInvalidToken)
}

func TestEnsureAdminUpdatesPassword(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()
	assert.Equal(t, svc.EnsureAdmin(ctx, "admin@herbal.test", "baru-12345"), nil)

	_, err := svc.Login(ctx, "admin@herbal.test", "rahasia123")
	assert.Equal(t, err, service.ErrInvalidCredential)
	_, err = svc.Login(ctx, "admin@herbal.test", "baru-12345")
	assert.Equal(t, err, nil)

	assert.NotEqual(t, svc.EnsureAdmin(ctx, "admin@herbal.test", "short"), nil)
	assert.Equal(t, svc.EnsureAdmin(ctx, "bad", "long-enough"), service.ErrInvalidEmail)
}
