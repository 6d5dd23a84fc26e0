package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/user-auth-service/internal/model"
)

// AccessToken is a signed HS256 JWT along with its expiry. Access
// tokens are short-lived, stateless and verified by signature
// alone; revocation happens at the refresh-token layer.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

var errUnexpectedSigning = errors.New("unexpected signing method")

// NewAccessToken builds and signs an HS256 JWT carrying the user's
// id (sub), email and role, plus exp and iat. Expiry enforcement is
// delegated to signature verification at parse time.
func NewAccessToken(secret string, ident model.Identity, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   ident.UserID,
		"email": ident.Email,
		"role":  ident.Role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a raw JWT
// and resolves it to the identity it carries. Any failure – wrong
// algorithm, bad signature, expired, malformed claims – comes back
// as a plain error so callers can map it to a single 401.
func ParseAccessToken(secret, raw string) (model.Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigning
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.Identity{}, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, errors.New("invalid claims")
	}
	ident := model.Identity{}
	if v, ok := claims["sub"].(string); ok {
		ident.UserID = v
	}
	if v, ok := claims["email"].(string); ok {
		ident.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		ident.Role = v
	}
	if ident.UserID == "" {
		return model.Identity{}, errors.New("missing subject claim")
	}
	return ident, nil
}
