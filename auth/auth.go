// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/Gisele-123/reside/models"
)

// Headers carrying the caller identity
const (
	PrincipalHeader = "X-Principal"
	SignatureHeader = "X-Principal-Signature"
)

var (
	ErrInvalidSignature = errors.New("invalid principal signature")
	ErrMissingSignature = errors.New("missing principal signature")
)

// SignPrincipal creates an HMAC-based signature for a principal.
// This is deterministic and verifiable
func SignPrincipal(principal, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(principal))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner headers
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// VerifyPrincipal checks that signature was issued for principal.
func VerifyPrincipal(principal, signature, salt string) error {
	if signature == "" {
		return ErrMissingSignature
	}
	expected := SignPrincipal(principal, salt)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// ResolvePrincipal returns the verified caller identity. A request without a
// principal, or naming the anonymous principal, is anonymous and needs no
// signature.
func ResolvePrincipal(principal, signature, salt string) (string, error) {
	principal = strings.TrimSpace(principal)
	if principal == "" || principal == models.AnonymousPrincipal {
		return models.AnonymousPrincipal, nil
	}
	if err := VerifyPrincipal(principal, signature, salt); err != nil {
		return "", err
	}
	return principal, nil
}

// CallerFromRequest resolves the caller of r from its principal headers.
func CallerFromRequest(r *http.Request, salt string) (string, error) {
	return ResolvePrincipal(r.Header.Get(PrincipalHeader), r.Header.Get(SignatureHeader), salt)
}
