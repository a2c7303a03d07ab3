package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleOperator is the only role issued today: firm staff reading the dashboard.
const RoleOperator = "operator"

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Claims struct {
	FirmID string `json:"firm_id"`
	Role   string `json:"role"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GenerateToken issues an operator token scoped to firmID. subject names the
// operator for audit logs and may be empty.
func (s *Service) GenerateToken(firmID uuid.UUID, subject string) (string, error) {
	now := s.now()
	claims := Claims{
		FirmID: firmID.String(),
		Role:   RoleOperator,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	if _, err := uuid.Parse(claims.FirmID); err != nil {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

// FirmUUID returns the parsed firm id. ValidateToken guarantees it parses.
func (c *Claims) FirmUUID() uuid.UUID {
	id, _ := uuid.Parse(c.FirmID)
	return id
}
