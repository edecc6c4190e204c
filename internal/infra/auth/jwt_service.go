package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"keystore/config"
	"keystore/internal/domain/service"
	"keystore/internal/errors"
)

const clientTokenType = "client"

// clientTokenService signs the HS256 tokens that identify a client namespace.
type clientTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewClientTokenService is the constructor for clientTokenService.
func NewClientTokenService(cfg *config.Config) (service.ClientTokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("client token secret must be provided")
	}

	ttl := 30 * 24 * time.Hour
	if cfg.Session != nil && cfg.Session.ClientTokenTTL > 0 {
		ttl = cfg.Session.ClientTokenTTL
	}

	return &clientTokenService{
		secret: []byte(cfg.SecretKey.Access),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// IssueClientToken creates a signed token whose subject is the client ID.
func (s *clientTokenService) IssueClientToken(clientID uuid.UUID) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub":  clientID.String(),
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
		"type": clientTokenType,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign client token")
	}

	return token, expiresAt, nil
}

// ParseClientToken validates the signature, expiry and token type.
func (s *clientTokenService) ParseClientToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "parse client token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("unexpected client token claims")
	}

	if tokenType, _ := claims["type"].(string); tokenType != clientTokenType {
		return uuid.Nil, errors.Errorf("unexpected token type %q", tokenType)
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "client token subject")
	}

	clientID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "client token subject is not a uuid")
	}

	return clientID, nil
}
