package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the lifetime of an issued session token.
const DefaultTokenTTL = time.Hour

var (
	// ErrMissingSigningKey is returned when the codec is built without a secret.
	ErrMissingSigningKey = errors.New("security: signing key must be provided")

	// ErrInvalidToken is the parent of every verification failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenMalformed means the token is not a structurally valid JWT.
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)
	// ErrTokenBadSignature means the signature or signing method did not verify.
	ErrTokenBadSignature = fmt.Errorf("%w: bad signature", ErrInvalidToken)
	// ErrTokenExpired means the token is past its expiry instant.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// SessionClaims is the payload carried by a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
}

// Token is an issued session token.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// Claims is the verified content of a session token.
type Claims struct {
	AccountID int64
	TokenID   string
	ExpiresAt time.Time
}

// CodecOption customises a Codec.
type CodecOption func(*Codec)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// Codec issues and verifies HS256 session tokens. The secret is fixed at
// construction and never changes afterwards, so a Codec is safe for
// concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec returns a Codec signing with secret.
func NewCodec(secret []byte, opts ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSigningKey
	}
	c := &Codec{
		secret: append([]byte(nil), secret...),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a new token for accountID. Every call yields a distinct token.
func (c *Codec) Issue(accountID int64) (Token, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return Token{}, err
	}
	now := c.now().UTC()
	expiresAt := now.Add(c.ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.String(),
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: accountID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ID: id.String(), ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks the signature and expiry of token and returns its claims.
// Failures are one of ErrTokenMalformed, ErrTokenBadSignature or
// ErrTokenExpired.
func (c *Codec) Verify(token string) (Claims, error) {
	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Claims{}, classify(err)
	}
	if !parsed.Valid || claims.UserID <= 0 {
		return Claims{}, ErrTokenMalformed
	}
	return Claims{
		AccountID: claims.UserID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}

// FailureReason labels a verification error for logs and metrics.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenBadSignature):
		return "bad_signature"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	default:
		return "unknown"
	}
}
