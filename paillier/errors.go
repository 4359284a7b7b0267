// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package paillier

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why an operation failed. It is a taxonomy, not a type
// hierarchy: every *Error carries exactly one Kind, and callers branch on it
// with errors.As rather than on the error's message.
type Kind int

const (
	// KindInvalidPQ: p = q, lambda = 0, or mu could not be computed — p, q
	// do not form a valid Paillier key.
	KindInvalidPQ Kind = iota
	// KindEncrypt: plaintext out of signed range, or nonce not in Z*_N.
	KindEncrypt
	// KindDecrypt: ciphertext not in Z*_{N^2}, or L() undefined on the
	// intermediate value.
	KindDecrypt
	// KindOps: operand to a homomorphic operation out of its domain.
	KindOps
	// KindBuildFastExp: construction of a CRT table failed, typically
	// indicating invalid inputs upstream.
	KindBuildFastExp
	// KindBug: an invariant violation reachable only by a library bug.
	KindBug
)

func (k Kind) String() string {
	switch k {
	case KindInvalidPQ:
		return "invalid_pq"
	case KindEncrypt:
		return "encrypt"
	case KindDecrypt:
		return "decrypt"
	case KindOps:
		return "ops"
	case KindBuildFastExp:
		return "build_fast_exp"
	case KindBug:
		return "bug"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned from every public operation in
// this package. Its Kind lets callers branch without string-matching; its
// wrapped cause (if any) is available via errors.Unwrap / errors.Cause.
type Error struct {
	Kind Kind
	Op   string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("paillier: %s: %s: %v", e.Op, e.Kind, e.err)
	}
	return fmt.Sprintf("paillier: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, &paillier.Error{Kind: paillier.KindEncrypt}).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newErr(op string, kind Kind, msg string) *Error {
	return &Error{Op: op, Kind: kind, err: errors.New(msg)}
}

func wrapErr(op string, kind Kind, cause error, msg string) *Error {
	return &Error{Op: op, Kind: kind, err: errors.Wrap(cause, msg)}
}
