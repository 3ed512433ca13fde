package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/glog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"herbal/entities"
	"herbal/pkg/auth/repository"
	"herbal/pkg/auth/service"
)

const issuer = "herbal"

type authSvc struct {
	repo   repository.AdminRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(r repository.AdminRepository, secret string, ttl time.Duration) service.AuthService {
	return &authSvc{repo: r, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *authSvc) Login(ctx context.Context, email, password string) (*service.Session, error) {
	email, ok := normalizeEmail(email)
	if !ok {
		return nil, service.ErrInvalidEmail
	}
	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			glog.Infof("[auth] login unknown email=%s", email)
			return nil, service.ErrInvalidCredential
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		glog.Infof("[auth] login wrong password email=%s", email)
		return nil, service.ErrInvalidCredential
	}

	exp := s.now().Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   a.Email,
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &service.Session{Email: a.Email, Token: signed, ExpiresAt: exp}, nil
}

func (s *authSvc) Verify(token string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	var claims jwt.RegisteredClaims
	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return s.secret, nil }); err != nil {
		return "", service.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", service.ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *authSvc) EnsureAdmin(ctx context.Context, email, password string) error {
	email, ok := normalizeEmail(email)
	if !ok {
		return service.ErrInvalidEmail
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.Upsert(ctx, &entities.Admin{Email: email, PasswordHash: string(hash)}); err != nil {
		return fmt.Errorf("save admin: %w", err)
	}
	glog.Infof("[auth] admin ready email=%s", email)
	return nil
}

func normalizeEmail(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", false
	}
	return s, true
}
