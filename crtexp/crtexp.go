// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package crtexp computes x^e mod n for a composite n = n1*n2 with known
// factorization by reducing to two half-length exponentiations and
// recombining with the Chinese Remainder Theorem. It is the accelerator
// behind DecryptionKey's fast encrypt/decrypt/omul paths.
package crtexp

import (
	"math/big"

	"github.com/pkg/errors"
)

// CrtExp holds a composite modulus n = n1*n2, gcd(n1, n2) = 1, together with
// the data needed to evaluate x^e mod n via CRT: the totients of n1 and n2,
// and beta = n1^-1 mod n2.
//
// CrtExp is immutable after construction and safe for concurrent reads.
type CrtExp struct {
	n, n1, phiN1, n2, phiN2, beta *big.Int
}

// Exponent is an exponent prepared against a specific CrtExp: its residues
// mod phi(n1) and phi(n2), plus the sign of the original exponent. Preparing
// an Exponent costs two reductions; Exp reuses the prepared form.
type Exponent struct {
	eModPhiN1, eModPhiN2 *big.Int
	isNegative           bool
}

// String never discloses n1, n2, or their totients: these can be secret
// (e.g. p, q for a Paillier key), so the debug representation is a fixed
// label rather than a dump of the fields.
func (*CrtExp) String() string { return "CrtExp" }

// GoString mirrors String for %#v formatting.
func (*CrtExp) GoString() string { return "CrtExp" }

// String never discloses the prepared residues.
func (*Exponent) String() string { return "CrtExponent" }

// GoString mirrors String for %#v formatting.
func (*Exponent) GoString() string { return "CrtExponent" }

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
)

// Build constructs a CrtExp for n = n1*n2 from n1, phi(n1), n2, phi(n2). It
// fails if any argument is <= 0, if phi(ni) >= ni, or if n1 is not invertible
// mod n2 (which would mean n1 and n2 are not coprime).
func Build(n1, phiN1, n2, phiN2 *big.Int) (*CrtExp, error) {
	if n1.Sign() <= 0 || n2.Sign() <= 0 || phiN1.Sign() <= 0 || phiN2.Sign() <= 0 {
		return nil, errors.New("crtexp: n1, n2, phi(n1) and phi(n2) must be positive")
	}
	if phiN1.Cmp(n1) >= 0 {
		return nil, errors.New("crtexp: phi(n1) must be less than n1")
	}
	if phiN2.Cmp(n2) >= 0 {
		return nil, errors.New("crtexp: phi(n2) must be less than n2")
	}

	beta := new(big.Int).ModInverse(n1, n2)
	if beta == nil {
		return nil, errors.New("crtexp: n1 has no inverse mod n2, n1 and n2 are not coprime")
	}

	return &CrtExp{
		n:     new(big.Int).Mul(n1, n2),
		n1:    new(big.Int).Set(n1),
		phiN1: new(big.Int).Set(phiN1),
		n2:    new(big.Int).Set(n2),
		phiN2: new(big.Int).Set(phiN2),
		beta:  beta,
	}, nil
}

// BuildN builds a CrtExp for n = p*q with phi(p) = p-1, phi(q) = q-1, i.e.
// for the Paillier modulus N itself. Paillier keys use BuildNN instead.
func BuildN(p, q *big.Int) (*CrtExp, error) {
	phiP := new(big.Int).Sub(p, one)
	phiQ := new(big.Int).Sub(q, one)
	return Build(p, phiP, q, phiQ)
}

// BuildNN builds a CrtExp for n = (p*q)^2 with phi(p^2) = p^2-p,
// phi(q^2) = q^2-q: the modulus Paillier ciphertexts actually live in.
func BuildNN(p, q *big.Int) (*CrtExp, error) {
	p2 := new(big.Int).Mul(p, p)
	q2 := new(big.Int).Mul(q, q)
	phiP2 := new(big.Int).Sub(p2, p)
	phiQ2 := new(big.Int).Sub(q2, q)
	return Build(p2, phiP2, q2, phiQ2)
}

// N returns n1*n2.
func (c *CrtExp) N() *big.Int {
	return new(big.Int).Set(c.n)
}

// PrepareExponent reduces e mod phi(n1) and mod phi(n2) and records its
// sign. Negative exponents are handled by reducing |e| and inverting the
// final result in Exp, rather than reducing e directly: math/big's Mod is
// already Euclidean (non-negative for a positive modulus), so this is a
// matter of matching the algebra rather than working around a negative
// remainder.
func (c *CrtExp) PrepareExponent(e *big.Int) *Exponent {
	abs := new(big.Int).Abs(e)
	return &Exponent{
		eModPhiN1:  new(big.Int).Mod(abs, c.phiN1),
		eModPhiN2:  new(big.Int).Mod(abs, c.phiN2),
		isNegative: e.Sign() < 0,
	}
}

// Exp evaluates x^e mod n for the exponent e that was prepared into exp.
// It returns an error if exp is negative and the intermediate result is not
// invertible mod n.
func (c *CrtExp) Exp(x *big.Int, exp *Exponent) (*big.Int, error) {
	s1 := new(big.Int).Mod(x, c.n1)
	s2 := new(big.Int).Mod(x, c.n2)

	r1 := new(big.Int).Exp(s1, exp.eModPhiN1, c.n1)
	r2 := new(big.Int).Exp(s2, exp.eModPhiN2, c.n2)

	// y = ((r2 - r1) * beta mod n2) * n1 + r1
	diff := new(big.Int).Sub(r2, r1)
	t := new(big.Int).Mul(diff, c.beta)
	t.Mod(t, c.n2)
	y := new(big.Int).Mul(t, c.n1)
	y.Add(y, r1)
	y.Mod(y, c.n)

	if !exp.isNegative {
		return y, nil
	}

	inv := new(big.Int).ModInverse(y, c.n)
	if inv == nil {
		return nil, errors.New("crtexp: result is not invertible mod n")
	}
	return inv, nil
}
