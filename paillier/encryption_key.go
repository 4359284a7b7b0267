// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package paillier implements the additively-homomorphic Paillier
// cryptosystem: key generation over safe primes, signed-range encryption
// and decryption, and homomorphic addition, subtraction, negation, and
// scalar multiplication on ciphertexts.
package paillier

import (
	"math/big"

	"github.com/LFDT-Lockness/fast-paillier/common"
)

var bigOne = big.NewInt(1)

// EncryptionKey holds the public modulus N plus the values derived from it
// that every encryption and homomorphic operation needs: N^2, N/2 and its
// negation. It is immutable after construction and safe to share by value
// across goroutines.
type EncryptionKey struct {
	n, nSquare, halfN, negHalfN *big.Int
}

// FromN builds an EncryptionKey from a public modulus N. It performs no
// validation that N has a particular form: any positive N is accepted, the
// same as a deserializer that trusts its input.
func FromN(n *big.Int) (*EncryptionKey, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, newErr("FromN", KindInvalidPQ, "N must be positive")
	}
	return newEncryptionKey(n), nil
}

func newEncryptionKey(n *big.Int) *EncryptionKey {
	nCopy := new(big.Int).Set(n)
	nSquare := new(big.Int).Mul(nCopy, nCopy)
	halfN := new(big.Int).Rsh(nCopy, 1)
	negHalfN := new(big.Int).Neg(halfN)
	return &EncryptionKey{n: nCopy, nSquare: nSquare, halfN: halfN, negHalfN: negHalfN}
}

// N returns a copy of the public modulus.
func (ek *EncryptionKey) N() *big.Int { return new(big.Int).Set(ek.n) }

// NSquare returns a copy of N^2.
func (ek *EncryptionKey) NSquare() *big.Int { return new(big.Int).Set(ek.nSquare) }

// HalfN returns a copy of floor(N/2), the upper bound of the signed
// plaintext range.
func (ek *EncryptionKey) HalfN() *big.Int { return new(big.Int).Set(ek.halfN) }

// String never discloses N: an EncryptionKey is public, but keeping its
// debug rendering uniform with DecryptionKey avoids a caller accidentally
// leaning on %v output for anything but diagnostics.
func (ek *EncryptionKey) String() string { return "EncryptionKey(" + common.Fingerprint(ek.n) + ")" }

// InSignedGroup reports whether -N/2 <= x <= N/2.
func (ek *EncryptionKey) InSignedGroup(x *big.Int) bool {
	return x.Cmp(ek.negHalfN) >= 0 && x.Cmp(ek.halfN) <= 0
}

// L computes (x-1)/N, the Paillier "L function", provided x = 1 (mod N) and
// x is itself in Z*_{N^2}. It returns an error if either precondition fails.
func (ek *EncryptionKey) L(x *big.Int) (*big.Int, error) {
	if !common.IsNumberInMultiplicativeGroup(ek.nSquare, x) {
		return nil, newErr("L", KindDecrypt, "argument not in Z*_{N^2}")
	}
	rem := new(big.Int).Mod(x, ek.n)
	if rem.Cmp(bigOne) != 0 {
		return nil, newErr("L", KindDecrypt, "argument is not congruent to 1 mod N")
	}

	t := new(big.Int).Sub(x, bigOne)
	t.Div(t, ek.n)
	return t, nil
}

// EncryptWith encrypts plaintext x with explicit nonce r, validating both
// against their domains. It is the slow path: b = r^N mod N^2 is computed
// with ordinary modular exponentiation because no factorization of N is
// known here.
func (ek *EncryptionKey) EncryptWith(x, r *big.Int) (*big.Int, error) {
	if !ek.InSignedGroup(x) {
		return nil, newErr("EncryptWith", KindEncrypt, "plaintext out of signed range")
	}
	if !common.IsNumberInMultiplicativeGroup(ek.n, r) {
		return nil, newErr("EncryptWith", KindEncrypt, "nonce not in Z*_N")
	}

	xPrime := new(big.Int).Mod(x, ek.n)
	nSquareMod := common.ModInt(ek.nSquare)

	// a = (1 + x'*N) mod N^2, the closed form of (1+N)^x' mod N^2.
	a := nSquareMod.Add(nSquareMod.Mul(xPrime, ek.n), bigOne)

	b := nSquareMod.Exp(r, ek.n)

	return nSquareMod.Mul(a, b), nil
}

// Oadd computes c1*c2 mod N^2, the ciphertext encoding the sum of the two
// underlying plaintexts. Both operands must be in Z*_{N^2}.
func (ek *EncryptionKey) Oadd(c1, c2 *big.Int) (*big.Int, error) {
	if !common.IsNumberInMultiplicativeGroup(ek.nSquare, c1) || !common.IsNumberInMultiplicativeGroup(ek.nSquare, c2) {
		return nil, newErr("Oadd", KindOps, "operand not in Z*_{N^2}")
	}
	return common.ModInt(ek.nSquare).Mul(c1, c2), nil
}

// Osub computes c1*c2^-1 mod N^2, the ciphertext encoding the difference of
// the two underlying plaintexts.
func (ek *EncryptionKey) Osub(c1, c2 *big.Int) (*big.Int, error) {
	if !common.IsNumberInMultiplicativeGroup(ek.nSquare, c1) {
		return nil, newErr("Osub", KindOps, "first operand not in Z*_{N^2}")
	}
	nSquareMod := common.ModInt(ek.nSquare)
	inv := nSquareMod.Inverse(c2)
	if inv == nil {
		return nil, newErr("Osub", KindOps, "second operand is not invertible mod N^2")
	}
	return nSquareMod.Mul(c1, inv), nil
}

// Oneg computes c^-1 mod N^2, the ciphertext encoding the negation of the
// underlying plaintext.
func (ek *EncryptionKey) Oneg(c *big.Int) (*big.Int, error) {
	inv := common.ModInt(ek.nSquare).Inverse(c)
	if inv == nil {
		return nil, newErr("Oneg", KindOps, "operand is not invertible mod N^2")
	}
	return inv, nil
}

// Omul computes c^a mod N^2, the ciphertext encoding the underlying
// plaintext scaled by a. Requires gcd(|a|, N) = 1 and c in Z*_{N^2}. A
// negative a is handled by computing c^|a| mod N^2 and inverting the result
// mod N^2.
func (ek *EncryptionKey) Omul(a, c *big.Int) (*big.Int, error) {
	if !common.IsNumberInMultiplicativeGroup(ek.nSquare, c) {
		return nil, newErr("Omul", KindOps, "ciphertext not in Z*_{N^2}")
	}
	absA := new(big.Int).Abs(a)
	if new(big.Int).GCD(nil, nil, absA, ek.n).Cmp(bigOne) != 0 {
		return nil, newErr("Omul", KindOps, "scalar not coprime to N")
	}

	nSquareMod := common.ModInt(ek.nSquare)
	out := nSquareMod.Exp(c, absA)
	if a.Sign() >= 0 {
		return out, nil
	}
	inv := nSquareMod.Inverse(out)
	if inv == nil {
		return nil, newErr("Omul", KindOps, "result is not invertible mod N^2")
	}
	return inv, nil
}
