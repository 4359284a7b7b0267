// Copyright © 2019-2020 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package paillierproof proves, without revealing p or q, that a Paillier
// modulus N is a Blum integer: a product of two primes both congruent to 3
// mod 4. This is the modulus check a multi-party protocol runs on a
// counterparty's public key before trusting it, adapted from the
// Paillier-Blum proof of Lindell & Goldfeder ("A Proof of Paillier's
// Cryptosystem... ", used in GG20-style threshold signing).
package paillierproof

import (
	"io"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"github.com/LFDT-Lockness/fast-paillier/common"
	"github.com/LFDT-Lockness/fast-paillier/paillier"
)

// Iterations is the number of challenge rounds; each round halves the
// soundness error, so 24 rounds give a 2^-24 false-accept probability.
const Iterations = 24

var big4 = big.NewInt(4)

// Proof is the prover's response to a batch of Iterations challenges: for
// each challenge yi, a 4th root xi of the (possibly negated/omega-twisted)
// yi, and the corresponding N-th root zi.
type Proof struct {
	Xis, Zis []*big.Int
	Ais, Bis []int
}

// GenOmega samples a value in Z_N with Jacobi symbol -1 mod N. Such a value
// exists iff N is not a perfect square, which holds for any valid Paillier
// modulus; the verifier supplies it so the prover cannot bias its choice.
func GenOmega(rng io.Reader, n *big.Int) *big.Int {
	var omega *big.Int
	for {
		omega = common.GetRandomPositiveInt(rng, n)
		if big.Jacobi(omega, n) == -1 {
			break
		}
	}
	return omega
}

// GenChallenges derives Iterations pseudorandom challenges in Z_N from the
// modulus and the prover's commitments (here, just omega) via SHA3-256 and
// cSHAKE256, making the protocol non-interactive (Fiat-Shamir).
func GenChallenges(n *big.Int, commitments []*big.Int) ([]*big.Int, error) {
	if n == nil {
		return nil, errors.New("paillierproof: modulus must not be nil")
	}

	hash := sha3.New256()
	for _, c := range commitments {
		if _, err := hash.Write(c.Bytes()); err != nil {
			return nil, errors.Wrap(err, "paillierproof: failed to hash commitment")
		}
	}
	commitmentHash := hash.Sum(nil)

	cshake := sha3.NewCShake256(n.Bytes(), commitmentHash)
	if _, err := cshake.Write(hash.Sum(n.Bytes())); err != nil {
		return nil, errors.Wrap(err, "paillierproof: failed to seed cshake")
	}

	challenges := make([]*big.Int, Iterations)
	buf := make([]byte, 32)
	for i := 0; i < Iterations; i++ {
		if _, err := cshake.Read(buf); err != nil {
			return nil, errors.Wrap(err, "paillierproof: failed to draw challenge")
		}
		challenges[i] = new(big.Int).SetBytes(buf)
	}
	return challenges, nil
}

// solve4th returns a 4th root of x mod n, where n = p*q and both p, q are
// congruent to 3 mod 4 (so phi is the totient (p-1)(q-1)). Squaring is a
// 2-to-1 map on QR(n) for a Blum integer, so a 4th root exists whenever x is
// a quadratic residue, and this closed form computes it directly from phi
// without ever factoring n at verify time.
func solve4th(x, phi, n *big.Int) *big.Int {
	e := new(big.Int).Add(phi, big4)
	e.Mul(e, e)
	e.Rsh(e, 6)
	e.Mod(e, phi)
	return new(big.Int).Exp(x, e, n)
}

// adjustChallenge finds the unique (a, b) in {0,1}x{0,1} such that
// (-1)^a * omega^b * yi is a quadratic residue mod n, mod p, and mod q —
// the transform that makes a 4th root of yi itself exist.
func adjustChallenge(yi, omega, n, p, q *big.Int) (adjusted *big.Int, a, b int) {
	isQR := func(v *big.Int) bool {
		return big.Jacobi(v, n) == 1 && big.Jacobi(v, p) == 1 && big.Jacobi(v, q) == 1
	}

	if isQR(yi) {
		return yi, 0, 0
	}
	omegaYi := new(big.Int).Mod(new(big.Int).Mul(yi, omega), n)
	if isQR(omegaYi) {
		return omegaYi, 0, 1
	}
	negYi := new(big.Int).Mod(new(big.Int).Neg(yi), n)
	if isQR(negYi) {
		return negYi, 1, 0
	}
	negOmegaYi := new(big.Int).Mod(new(big.Int).Neg(omegaYi), n)
	if isQR(negOmegaYi) {
		return negOmegaYi, 1, 1
	}
	return yi, 0, 0
}

// Prove builds a modulus proof for dk's public N, given the verifier's
// omega and the Fiat-Shamir challenges derived from it (callers typically
// obtain both via GenOmega/GenChallenges run against N, then pass them to
// Prove and ship the result alongside omega and challenges to the verifier).
func Prove(dk *paillier.DecryptionKey, omega *big.Int, challenges []*big.Int) (*Proof, error) {
	if len(challenges) != Iterations || omega == nil {
		return nil, errors.New("paillierproof: expected omega and exactly Iterations challenges")
	}

	n := dk.N()
	p, q := dk.P(), dk.Q()
	phi := dk.Totient()

	xis := make([]*big.Int, Iterations)
	zis := make([]*big.Int, Iterations)
	ais := make([]int, Iterations)
	bis := make([]int, Iterations)

	nInversePhi := new(big.Int).ModInverse(n, phi)
	if nInversePhi == nil {
		return nil, errors.New("paillierproof: N has no inverse mod phi(N), invalid key")
	}

	for i, raw := range challenges {
		yi := new(big.Int).Mod(raw, n)

		adjusted, a, b := adjustChallenge(yi, omega, n, p, q)
		xi := solve4th(adjusted, phi, n)
		if new(big.Int).Exp(xi, big4, n).Cmp(adjusted) != 0 {
			return nil, errors.New("paillierproof: challenge is not a quadratic residue under any adjustment")
		}

		xis[i] = xi
		ais[i] = a
		bis[i] = b
		zis[i] = new(big.Int).Exp(yi, nInversePhi, n)
	}

	return &Proof{Xis: xis, Zis: zis, Ais: ais, Bis: bis}, nil
}

func (pf *Proof) sane(challenges []*big.Int, omega *big.Int) bool {
	if omega == nil || len(challenges) != Iterations {
		return false
	}
	if len(pf.Xis) != Iterations || len(pf.Zis) != Iterations ||
		len(pf.Ais) != Iterations || len(pf.Bis) != Iterations {
		return false
	}
	for i := range pf.Xis {
		if pf.Xis[i] == nil || pf.Zis[i] == nil {
			return false
		}
	}
	return true
}

// Verify checks the proof against the public modulus N, the omega the
// verifier chose, and the challenges derived from it. It never needs p, q,
// or phi(N): that's the entire point of the proof.
func (pf *Proof) Verify(n, omega *big.Int, challenges []*big.Int) bool {
	if !pf.sane(challenges, omega) {
		return false
	}

	yis := make([]*big.Int, Iterations)
	for i, raw := range challenges {
		yis[i] = new(big.Int).Mod(raw, n)
	}

	return verifyXis(pf.Xis, yis, pf.Ais, pf.Bis, n, omega) && verifyZis(pf.Zis, yis, n)
}

func verifyXis(xis, yis []*big.Int, ais, bis []int, n, omega *big.Int) bool {
	for i := range xis {
		lhs := new(big.Int).Exp(xis[i], big4, n)

		rhs := new(big.Int).Set(yis[i])
		if bis[i] == 1 {
			rhs.Mul(rhs, omega)
			rhs.Mod(rhs, n)
		}
		if ais[i] == 1 {
			rhs.Neg(rhs)
			rhs.Mod(rhs, n)
		}
		if lhs.Cmp(rhs) != 0 {
			return false
		}
	}
	return true
}

func verifyZis(zis, yis []*big.Int, n *big.Int) bool {
	for i := range zis {
		recomputed := new(big.Int).Exp(zis[i], n, n)
		if recomputed.Cmp(yis[i]) != 0 {
			return false
		}
	}
	return true
}
