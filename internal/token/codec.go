// Package token encodes and validates signed access/refresh tokens.
package token

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/and161185/authkit/internal/errs"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Type discriminates access tokens from refresh tokens.
type Type string

const (
	// TypeAccess is the short-lived token accepted on protected resources.
	TypeAccess Type = "access"
	// TypeRefresh is the long-lived token accepted only for pair renewal.
	TypeRefresh Type = "refresh"
)

// Reserved claim names set by the issuer. Caller-supplied extras with these
// names are silently superseded.
const (
	claimUserID = "user_id"
	claimType   = "type"
)

// Claims is the validated payload of a token.
type Claims struct {
	UserID    int64
	Type      Type
	ExpiresAt time.Time
	Extra     map[string]any // non-reserved claims
}

// Codec signs and verifies tokens with a single process-wide HS256 secret.
type Codec struct {
	signKey []byte
	now     func() time.Time
}

// NewCodec constructs a Codec for the given signing secret.
func NewCodec(signKey []byte) *Codec {
	return &Codec{signKey: signKey, now: time.Now}
}

// Issue builds claims from extra merged with the reserved fields and signs
// them. Reserved fields are set last, so extra can never shadow them.
// TTL is required and explicit; the caller owns the expiry policy.
func (c *Codec) Issue(userID int64, typ Type, ttl time.Duration, extra map[string]any) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	now := c.now()
	mc := jwt.MapClaims{}
	for k, v := range extra {
		mc[k] = v
	}
	mc[claimUserID] = userID
	mc[claimType] = string(typ)
	mc["exp"] = jwt.NewNumericDate(now.Add(ttl))
	mc["iat"] = jwt.NewNumericDate(now)
	mc["jti"] = jti.String()

	return jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(c.signKey)
}

// DecodeAndValidate verifies token and returns its claims if it is a valid,
// unexpired token of the expected type. The signature is verified before any
// claim is parsed, so a forged payload yields ErrBadSignature and nothing
// else; only then come expiry, type, and subject checks, in that order.
func (c *Codec) DecodeAndValidate(token string, want Type) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errs.ErrMalformed
	}

	parser := jwt.NewParser()
	sig, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, errs.ErrBadSignature
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, c.signKey); err != nil {
		return nil, errs.ErrBadSignature
	}

	// The signature is ours; structural problems past this point mean we
	// signed something broken, not that an attacker is probing.
	var header struct {
		Alg string `json:"alg"`
	}
	if b, err := parser.DecodeSegment(parts[0]); err != nil || json.Unmarshal(b, &header) != nil {
		return nil, errs.ErrMalformed
	}
	if header.Alg != jwt.SigningMethodHS256.Alg() {
		return nil, errs.ErrMalformed
	}

	mc := jwt.MapClaims{}
	if b, err := parser.DecodeSegment(parts[1]); err != nil || json.Unmarshal(b, &mc) != nil {
		return nil, errs.ErrMalformed
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errs.ErrMalformed
	}
	if !exp.After(c.now()) {
		return nil, errs.ErrExpired
	}

	typ, ok := mc[claimType].(string)
	if !ok {
		return nil, errs.ErrMalformed
	}
	if Type(typ) != want {
		return nil, errs.ErrWrongType
	}

	// JSON numbers decode as float64; the subject must be a positive integer.
	f, ok := mc[claimUserID].(float64)
	if !ok || f <= 0 || f != math.Trunc(f) {
		return nil, errs.ErrMalformed
	}

	extra := make(map[string]any)
	for k, v := range mc {
		switch k {
		case claimUserID, claimType, "exp", "iat", "jti":
		default:
			extra[k] = v
		}
	}

	return &Claims{
		UserID:    int64(f),
		Type:      Type(typ),
		ExpiresAt: exp.Time,
		Extra:     extra,
	}, nil
}
