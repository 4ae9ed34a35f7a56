// Package auth implements the session token lifecycle and HTTP Basic
// credential handling.
package auth

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// Credentials is the parsed payload of an HTTP Basic authorization header.
type Credentials struct {
	Email    string
	Password string
}

// ParseBasicAuth parses an Authorization header value of the form
// "Basic base64(email:password)". The scheme comparison is
// case-insensitive. Every malformed input maps to common.ErrUnauthorized so
// that callers cannot leak which part of the header was wrong.
func ParseBasicAuth(header string) (*Credentials, error) {
	if header == "" {
		return nil, common.ErrUnauthorized
	}

	scheme, payload, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "basic") {
		return nil, common.ErrUnauthorized
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	email, password, found := strings.Cut(string(decoded), ":")
	if !found || email == "" || password == "" {
		return nil, common.ErrUnauthorized
	}

	return &Credentials{Email: email, Password: password}, nil
}

// HashPassword returns the fixed one-way hex digest of a password. The
// digest is deterministic so that login is a single
// (email, password_hash) lookup; it must match the digest used at
// registration time.
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
