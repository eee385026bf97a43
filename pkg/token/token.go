package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "typ" claim. Refresh tokens are only accepted
// by the refresh endpoint; access tokens everywhere else.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims are the standard JWT claims plus the application's own fields.
// Role and Clearance are embedded so middleware can authorize without a
// database round trip.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Clearance int    `json:"clearance"`
	TokenType string `json:"typ"`
}

// Issuer signs and validates access/refresh token pairs with HS256.
type Issuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer builds a token issuer. secret must be non-empty.
func NewIssuer(secret, issuer string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token: empty secret")
	}
	return &Issuer{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Access issues a signed access token for the user.
func (i *Issuer) Access(userID, role string, clearance int) (string, error) {
	return i.sign(userID, role, clearance, TypeAccess, uuid.New().String(), i.accessTTL)
}

// Refresh issues a signed refresh token and returns it along with its JTI,
// which the caller persists for rotation bookkeeping.
func (i *Issuer) Refresh(userID, role string, clearance int) (token, jti string, err error) {
	jti = uuid.New().String()
	token, err = i.sign(userID, role, clearance, TypeRefresh, jti, i.refreshTTL)
	return token, jti, err
}

func (i *Issuer) sign(userID, role string, clearance int, typ, jti string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		Role:      role,
		Clearance: clearance,
		TokenType: typ,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse validates the token signature, expiry and type, and returns the claims.
func (i *Issuer) Parse(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("token: invalid claims")
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("token: expected %s token, got %s", wantType, claims.TokenType)
	}
	return claims, nil
}
