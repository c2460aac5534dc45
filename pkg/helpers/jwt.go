package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSecret is returned when a JWTManager is built without a signing secret.
var ErrMissingSecret = errors.New("jwt: signing secret is required")

// JWTManager signs and parses HS256 session tokens.
// Tokens carry no expiry; they are invalidated through the password epoch.
type JWTManager struct {
	Secret []byte
	now    func() time.Time
}

func NewJWTManager(secret string) (*JWTManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &JWTManager{Secret: []byte(secret), now: time.Now}, nil
}

type Claims struct {
	UserID        string `json:"uid"`
	PasswordEpoch int64  `json:"pep"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateToken(userID string, passwordEpoch int64) (string, error) {
	claims := &Claims{
		UserID:        userID,
		PasswordEpoch: passwordEpoch,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(m.now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.Secret)
}

func (m *JWTManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
