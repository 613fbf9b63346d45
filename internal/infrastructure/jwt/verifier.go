package jwtinfra

import (
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/money-tracker-api/internal/domain"
)

// Verification failures. All of them wrap domain.ErrUnauthorized.
var (
	ErrMalformedToken    = fmt.Errorf("malformed token: %w", domain.ErrUnauthorized)
	ErrUnknownSigningKey = fmt.Errorf("unknown signing key: %w", domain.ErrUnauthorized)
	ErrInvalidSignature  = fmt.Errorf("invalid signature: %w", domain.ErrUnauthorized)
	ErrExpired           = fmt.Errorf("token expired: %w", domain.ErrUnauthorized)
	ErrAudienceMismatch  = fmt.Errorf("audience mismatch: %w", domain.ErrUnauthorized)
	ErrIssuerMismatch    = fmt.Errorf("issuer mismatch: %w", domain.ErrUnauthorized)
)

// Claims holds the ID token payload fields the API reads.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"cognito:username"`
	jwt.RegisteredClaims
}

// KeySource resolves the verification key for a parsed token.
// *keyfunc.JWKS satisfies it.
type KeySource interface {
	Keyfunc(token *jwt.Token) (interface{}, error)
}

// Verifier checks RS256 ID tokens against a JWKS and the configured client.
type Verifier struct {
	keys   KeySource
	parser *jwt.Parser
}

// NewVerifier builds a Verifier that requires aud to contain clientID and,
// when issuer is non-empty, iss to equal it.
func NewVerifier(keys KeySource, clientID, issuer string) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(clientID),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Verifier{keys: keys, parser: jwt.NewParser(opts...)}
}

// Verify validates token and returns the identity it attests.
func (v *Verifier) Verify(token string) (*domain.Identity, error) {
	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(token, claims, v.keyfunc); err != nil {
		return nil, classify(err)
	}
	if claims.Subject == "" {
		return nil, ErrMalformedToken
	}
	return &domain.Identity{
		Subject:  claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}

func (v *Verifier) keyfunc(t *jwt.Token) (interface{}, error) {
	if kid, _ := t.Header["kid"].(string); kid == "" {
		return nil, ErrMalformedToken
	}
	key, err := v.keys.Keyfunc(t)
	if errors.Is(err, keyfunc.ErrKIDNotFound) {
		return nil, ErrUnknownSigningKey
	}
	return key, err
}

// classify maps a jwt parse error onto one verification failure. Key lookup
// errors are checked first; jwt reports them as unverifiable.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrMalformedToken):
		return ErrMalformedToken
	case errors.Is(err, ErrUnknownSigningKey):
		return ErrUnknownSigningKey
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrAudienceMismatch
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuerMismatch
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrMalformedToken
	default:
		return ErrInvalidSignature
	}
}
