// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package paillier

import (
	"context"
	cryptorand "crypto/rand"
	"io"
	"math/big"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/LFDT-Lockness/fast-paillier/common"
	"github.com/LFDT-Lockness/fast-paillier/crtexp"
	"github.com/LFDT-Lockness/fast-paillier/primes"
)

// logProgressTickInterval is how often Generate logs that it is still
// searching for safe primes: this step is the dominant cost of key setup
// and, at 1536 bits per prime, can run for seconds to minutes.
const logProgressTickInterval = 8 * time.Second

// DefaultPrimeBits is the bit length of each safe prime Generate draws,
// producing a 3072-bit N.
const DefaultPrimeBits = 1536

// DecryptionKey holds the private material of a Paillier key: the two safe
// primes, the derived lambda and mu, and the CRT tables that accelerate
// encryption and decryption. It embeds an EncryptionKey for N = p*q.
//
// DecryptionKey is immutable after construction and is treated as secret:
// its String/GoString methods never print p, q, lambda or mu.
type DecryptionKey struct {
	*EncryptionKey

	p, q, lambda, mu *big.Int

	crtNSquare *crtexp.CrtExp
	nExponent  *crtexp.Exponent
	lambdaExp  *crtexp.Exponent
}

// String never discloses p, q, lambda, or mu.
func (dk *DecryptionKey) String() string {
	return "DecryptionKey(" + common.Fingerprint(dk.n) + ")"
}

// GoString mirrors String for %#v formatting.
func (dk *DecryptionKey) GoString() string { return dk.String() }

// P returns a defensive copy of the first safe prime. *big.Int is mutable,
// so returning the field directly would let a caller corrupt the key.
func (dk *DecryptionKey) P() *big.Int { return new(big.Int).Set(dk.p) }

// Q returns a defensive copy of the second safe prime.
func (dk *DecryptionKey) Q() *big.Int { return new(big.Int).Set(dk.q) }

// Lambda returns a defensive copy of lambda = lcm(p-1, q-1).
func (dk *DecryptionKey) Lambda() *big.Int { return new(big.Int).Set(dk.lambda) }

// Totient returns a defensive copy of (p-1)*(q-1) = phi(N).
func (dk *DecryptionKey) Totient() *big.Int {
	return new(big.Int).Mul(new(big.Int).Sub(dk.p, bigOne), new(big.Int).Sub(dk.q, bigOne))
}

// U returns a defensive copy of mu = lambda^-1 mod N.
func (dk *DecryptionKey) U() *big.Int { return new(big.Int).Set(dk.mu) }

// BitsLength returns the bit length of N.
func (dk *DecryptionKey) BitsLength() int { return dk.n.BitLen() }

// FromPrimes builds a DecryptionKey from two distinct safe primes. It
// rejects p == q, a zero lambda, or a non-invertible lambda: the last check
// is the definitive validity test for the (p, q) pair.
func FromPrimes(p, q *big.Int) (*DecryptionKey, error) {
	if p.Cmp(q) == 0 {
		return nil, newErr("FromPrimes", KindInvalidPQ, "p and q must be distinct")
	}

	n := new(big.Int).Mul(p, q)
	ek := newEncryptionKey(n)

	pMinus1 := new(big.Int).Sub(p, bigOne)
	qMinus1 := new(big.Int).Sub(q, bigOne)
	gcd := new(big.Int).GCD(nil, nil, pMinus1, qMinus1)
	lambda := new(big.Int).Div(new(big.Int).Mul(pMinus1, qMinus1), gcd)
	if lambda.Sign() == 0 {
		return nil, newErr("FromPrimes", KindInvalidPQ, "lambda must be nonzero")
	}

	mu := new(big.Int).ModInverse(lambda, n)
	if mu == nil {
		return nil, newErr("FromPrimes", KindInvalidPQ, "lambda has no inverse mod N, p and q do not form a valid key")
	}

	crtNSquare, err := crtexp.BuildNN(p, q)
	if err != nil {
		return nil, wrapErr("FromPrimes", KindBuildFastExp, err, "failed to build CRT table for N^2")
	}

	return &DecryptionKey{
		EncryptionKey: ek,
		p:             new(big.Int).Set(p),
		q:             new(big.Int).Set(q),
		lambda:        lambda,
		mu:            mu,
		crtNSquare:    crtNSquare,
		nExponent:     crtNSquare.PrepareExponent(n),
		lambdaExp:     crtNSquare.PrepareExponent(lambda),
	}, nil
}

// Generate draws two distinct safe primes of primeBits bits each, searched
// concurrently, and builds a DecryptionKey from them. It logs progress
// periodically because safe-prime generation is the dominant cost of key
// setup and can run for seconds at 1536-bit primes.
func Generate(ctx context.Context, rng io.Reader, primeBits int) (*DecryptionKey, error) {
	type result struct {
		prime *big.Int
		err   error
	}

	resultCh := make(chan result, 2)
	ticker := time.NewTicker(logProgressTickInterval)
	defer ticker.Stop()

	// The two searches below share rng across goroutines; common.Synchronize
	// serializes their Read calls so a caller-supplied reader that isn't
	// concurrency-safe on its own (unlike crypto/rand.Reader) can't have its
	// internal state corrupted by the race.
	syncedRng := common.Synchronize(rng)
	search := func() {
		q, err := primes.GenerateSafePrime(syncedRng, primeBits)
		resultCh <- result{prime: q, err: err}
	}
	go search()
	go search()

	var found []*big.Int
	var errs *multierror.Error
	pending := 2
	for len(found) < 2 && pending > 0 {
		select {
		case <-ctx.Done():
			return nil, wrapErr("Generate", KindBug, ctx.Err(), "key generation cancelled")
		case <-ticker.C:
			common.Logger.Info("still generating safe primes...")
		case r := <-resultCh:
			pending--
			if r.err != nil {
				errs = multierror.Append(errs, r.err)
				continue
			}
			found = append(found, r.prime)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, wrapErr("Generate", KindBug, err, "safe prime search failed")
	}

	p, q := found[0], found[1]
	if p.Cmp(q) == 0 {
		// Astronomically unlikely at any real bit length; start the search
		// over rather than surfacing a spurious InvalidPQ to the caller.
		return Generate(ctx, rng, primeBits)
	}

	dk, err := FromPrimes(p, q)
	if err != nil {
		return nil, err
	}
	common.Logger.Infof("generated paillier key %s", dk)
	return dk, nil
}

// GenerateDefault is Generate with DefaultPrimeBits and crypto/rand as the
// RNG, using context.Background() since key generation has no deadline of
// its own.
func GenerateDefault() (*DecryptionKey, error) {
	return Generate(context.Background(), cryptorand.Reader, DefaultPrimeBits)
}

// Decrypt recovers the signed-range plaintext encoded by ciphertext c.
func (dk *DecryptionKey) Decrypt(c *big.Int) (*big.Int, error) {
	if !common.IsNumberInMultiplicativeGroup(dk.nSquare, c) {
		return nil, newErr("Decrypt", KindDecrypt, "ciphertext not in Z*_{N^2}")
	}

	a, err := dk.crtNSquare.Exp(c, dk.lambdaExp)
	if err != nil {
		return nil, wrapErr("Decrypt", KindBug, err, "c^lambda mod N^2 failed")
	}

	l, err := dk.EncryptionKey.L(a)
	if err != nil {
		return nil, wrapErr("Decrypt", KindDecrypt, err, "L(c^lambda mod N^2) undefined")
	}

	mPrime := common.ModInt(dk.n).Mul(l, dk.mu)

	doubled := new(big.Int).Lsh(mPrime, 1)
	if doubled.Cmp(dk.n) >= 0 {
		return mPrime.Sub(mPrime, dk.n), nil
	}
	return mPrime, nil
}

// EncryptWith is the fast path: same validation and closed form as
// EncryptionKey.EncryptWith, but b = r^N mod N^2 is evaluated through the
// prepared CRT exponent, roughly 4x faster than the public path.
func (dk *DecryptionKey) EncryptWith(x, r *big.Int) (*big.Int, error) {
	if !dk.InSignedGroup(x) {
		return nil, newErr("EncryptWith", KindEncrypt, "plaintext out of signed range")
	}
	if !common.IsNumberInMultiplicativeGroup(dk.n, r) {
		return nil, newErr("EncryptWith", KindEncrypt, "nonce not in Z*_N")
	}

	xPrime := new(big.Int).Mod(x, dk.n)
	nSquareMod := common.ModInt(dk.nSquare)
	a := nSquareMod.Add(nSquareMod.Mul(xPrime, dk.n), bigOne)

	b, err := dk.crtNSquare.Exp(r, dk.nExponent)
	if err != nil {
		return nil, wrapErr("EncryptWith", KindBug, err, "r^N mod N^2 failed")
	}

	return nSquareMod.Mul(a, b), nil
}

// EncryptWithRandom samples a nonce r uniformly from Z*_N and encrypts x
// with it via the fast path, returning both the ciphertext and the nonce
// used (callers that need to reveal the nonce, e.g. for a proof, don't have
// to regenerate it).
func (dk *DecryptionKey) EncryptWithRandom(rng io.Reader, x *big.Int) (c, nonce *big.Int, err error) {
	r := common.GetRandomPositiveRelativelyPrimeInt(rng, dk.n)
	c, err = dk.EncryptWith(x, r)
	if err != nil {
		return nil, nil, err
	}
	return c, r, nil
}

// Omul is the fast path for scalar multiplication: a fresh Exponent is
// prepared for a over the existing CRT table for N^2, then evaluated,
// roughly 4x faster than EncryptionKey.Omul.
func (dk *DecryptionKey) Omul(a, c *big.Int) (*big.Int, error) {
	if !common.IsNumberInMultiplicativeGroup(dk.nSquare, c) {
		return nil, newErr("Omul", KindOps, "ciphertext not in Z*_{N^2}")
	}
	if new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), dk.n).Cmp(bigOne) != 0 {
		return nil, newErr("Omul", KindOps, "scalar not coprime to N")
	}

	exp := dk.crtNSquare.PrepareExponent(a)
	out, err := dk.crtNSquare.Exp(c, exp)
	if err != nil {
		return nil, wrapErr("Omul", KindOps, err, "c^a mod N^2 failed")
	}
	return out, nil
}
