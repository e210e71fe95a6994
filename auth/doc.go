// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

/*
Package auth resolves the identity of the caller.

# Principals

Every request may name its caller in the X-Principal header. A principal is
an opaque string such as an owner or builder identity. Requests without one
are made by the anonymous principal (models.AnonymousPrincipal), which owns
nothing and is refused by every owner-only operation.

# Signatures

A named principal must be accompanied by X-Principal-Signature, an
HMAC-SHA256 of the principal keyed with PRINCIPAL_SALT:

	sig := auth.SignPrincipal("alice", salt)
	err := auth.VerifyPrincipal("alice", sig, salt)

The signature is URL-safe base64 encoded without padding. Since it's
deterministic, the operator can hand out signatures once and nothing needs to
be stored.

# Resolving the caller

	caller, err := auth.CallerFromRequest(r, cfg.PrincipalSalt)

Returns the verified principal, the anonymous principal when no header is
set, or ErrMissingSignature / ErrInvalidSignature.
*/
package auth
