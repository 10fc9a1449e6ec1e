package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/mapstructure"

	"github.com/telaviv/ops-dashboard/internal/domain"
)

var (
	// ErrMalformedToken covers tokens that do not decode or lack required claims.
	ErrMalformedToken = errors.New("malformed credential token")
	// ErrExpiredToken is returned once the exp claim is at or before now.
	ErrExpiredToken = errors.New("credential token expired")
)

// claimSet is the slice of the payload the dashboard reads. The token
// signature is verified by the backend, never here.
type claimSet struct {
	Subject  string `mapstructure:"sub"`
	Role     string `mapstructure:"role"`
	Username string `mapstructure:"username"`
}

// Decoder turns a credential token into an Identity.
type Decoder struct {
	parser *jwt.Parser
	now    func() time.Time
}

// DecoderOption customizes a Decoder.
type DecoderOption func(*Decoder)

// WithClock replaces the wall clock used for the expiry check.
func WithClock(now func() time.Time) DecoderOption {
	return func(d *Decoder) {
		d.now = now
	}
}

// NewDecoder builds a decoder using the wall clock by default.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{parser: jwt.NewParser(), now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads the token payload without verifying the signature. The
// identity is returned only for well-formed tokens whose exp lies strictly
// in the future.
func (d *Decoder) Decode(token string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}
	if !exp.Time.After(d.now()) {
		return nil, ErrExpiredToken
	}

	var cs claimSet
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cs,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]interface{}(claims)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if cs.Subject == "" || cs.Role == "" {
		return nil, fmt.Errorf("%w: missing sub or role claim", ErrMalformedToken)
	}

	return &domain.Identity{
		ID:       cs.Subject,
		Role:     domain.Role(cs.Role),
		Username: cs.Username,
	}, nil
}
