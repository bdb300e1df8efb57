package quote

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/markwize/quotewizard-backend/pkg/config"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
)

// TokenIssuer signs the short-lived tokens that authorize downloading
// a quote's generated documents without any other credential.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// DocClaims are the claims carried by a document-download token.
type DocClaims struct {
	QuoteID string `json:"quote_id"`
	Number  string `json:"number"`
	jwt.RegisteredClaims
}

// NewTokenIssuer builds the issuer from the JWT configuration.
func NewTokenIssuer(cfg config.JWTConfig) (*TokenIssuer, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("jwt issuer required")
	}
	ttl := cfg.DocTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("doc token ttl must be positive")
	}
	return &TokenIssuer{secret: []byte(cfg.Secret), issuer: cfg.Issuer, ttl: ttl}, nil
}

// Issue signs a download token for the given quote.
func (t *TokenIssuer) Issue(quoteID, number string, now time.Time) (string, error) {
	claims := DocClaims{
		QuoteID: quoteID,
		Number:  number,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign doc token")
	}
	return signed, nil
}

// Verify parses a download token and returns its claims.
func (t *TokenIssuer) Verify(raw string) (*DocClaims, error) {
	claims := &DocClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer))
	if err != nil || !token.Valid {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid document token")
	}
	return claims, nil
}
