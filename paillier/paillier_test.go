// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package paillier_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFDT-Lockness/fast-paillier/paillier"
)

// testKeyPrimes are two small, fixed safe primes used for scenarios that
// only need the CRT plumbing exercised, not real security. 7 = 2*3+1 and
// 11 = 2*5+1 are both safe primes, and unlike some safe-prime pairs
// (e.g. 11, 23: lambda=lcm(10,22)=110 shares the factor 11 with N=253, so
// mu = lambda^-1 mod N does not exist) gcd(lcm(p-1,q-1), p*q) = 1 here, so
// FromPrimes accepts the pair.
func testKeyPrimes(t *testing.T) (*big.Int, *big.Int) {
	t.Helper()
	return big.NewInt(7), big.NewInt(11)
}

func testDecryptionKey(t *testing.T) *paillier.DecryptionKey {
	t.Helper()
	p, q := testKeyPrimes(t)
	dk, err := paillier.FromPrimes(p, q)
	require.NoError(t, err)
	return dk
}

func TestFromPrimesRejectsEqualPrimes(t *testing.T) {
	_, err := paillier.FromPrimes(big.NewInt(11), big.NewInt(11))
	assert.Error(t, err)
}

func TestFromPrimesAcceptsThreeAndFive(t *testing.T) {
	// p=3, q=5: lambda = lcm(2,4) = 4, N = 15. mu = 4^-1 mod 15 = 4, which
	// exists, so this pair is in fact accepted - the definitive check is
	// solely "does lambda invert mod N", not primality or size.
	dk, err := paillier.FromPrimes(big.NewInt(3), big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, "15", dk.N().String())
}

func TestRoundTrip(t *testing.T) {
	dk := testDecryptionKey(t)
	n := dk.N()
	half := dk.HalfN()

	for _, x := range []int64{0, 1, -1, half.Int64(), -half.Int64(), 7, -7} {
		plaintext := big.NewInt(x)
		if !dk.InSignedGroup(plaintext) {
			continue
		}
		r := randomNonce(t, n)
		c, err := dk.EncryptWith(plaintext, r)
		require.NoError(t, err)

		got, err := dk.Decrypt(c)
		require.NoError(t, err)
		assert.Equal(t, plaintext.String(), got.String())
	}
}

func TestEncryptionPathEquivalence(t *testing.T) {
	dk := testDecryptionKey(t)
	ek, err := paillier.FromN(dk.N())
	require.NoError(t, err)

	x := big.NewInt(5)
	r := randomNonce(t, dk.N())

	fast, err := dk.EncryptWith(x, r)
	require.NoError(t, err)

	slow, err := ek.EncryptWith(x, r)
	require.NoError(t, err)

	assert.Equal(t, slow.String(), fast.String())
}

func TestEncryptWithRejectsOutOfRangePlaintext(t *testing.T) {
	dk := testDecryptionKey(t)
	n := dk.N()
	r := randomNonce(t, n)

	tooBig := new(big.Int).Add(dk.HalfN(), big.NewInt(1))
	_, err := dk.EncryptWith(tooBig, r)
	assert.Error(t, err)

	tooSmall := new(big.Int).Neg(tooBig)
	_, err = dk.EncryptWith(tooSmall, r)
	assert.Error(t, err)
}

func TestEncryptWithRejectsNonceOutsideGroup(t *testing.T) {
	dk := testDecryptionKey(t)
	_, err := dk.EncryptWith(big.NewInt(1), dk.N())
	assert.Error(t, err)
}

func TestDecryptRejectsCiphertextOutsideGroup(t *testing.T) {
	dk := testDecryptionKey(t)
	_, err := dk.Decrypt(dk.NSquare())
	assert.Error(t, err)
}

func TestHomomorphicAddition(t *testing.T) {
	dk := testDecryptionKey(t)
	n := dk.N()

	a, b := big.NewInt(3), big.NewInt(4)
	ca, err := dk.EncryptWith(a, randomNonce(t, n))
	require.NoError(t, err)
	cb, err := dk.EncryptWith(b, randomNonce(t, n))
	require.NoError(t, err)

	sum, err := dk.Oadd(ca, cb)
	require.NoError(t, err)

	got, err := dk.Decrypt(sum)
	require.NoError(t, err)
	assert.Equal(t, "7", got.String())
}

func TestHomomorphicSubtraction(t *testing.T) {
	dk := testDecryptionKey(t)
	n := dk.N()

	a, b := big.NewInt(9), big.NewInt(4)
	ca, err := dk.EncryptWith(a, randomNonce(t, n))
	require.NoError(t, err)
	cb, err := dk.EncryptWith(b, randomNonce(t, n))
	require.NoError(t, err)

	diff, err := dk.Osub(ca, cb)
	require.NoError(t, err)

	got, err := dk.Decrypt(diff)
	require.NoError(t, err)
	assert.Equal(t, "5", got.String())
}

func TestHomomorphicNegation(t *testing.T) {
	dk := testDecryptionKey(t)
	n := dk.N()

	a := big.NewInt(6)
	ca, err := dk.EncryptWith(a, randomNonce(t, n))
	require.NoError(t, err)

	neg, err := dk.Oneg(ca)
	require.NoError(t, err)

	got, err := dk.Decrypt(neg)
	require.NoError(t, err)
	assert.Equal(t, "-6", got.String())
}

func TestHomomorphicScalarMultiplication(t *testing.T) {
	dk := testDecryptionKey(t)
	n := dk.N()

	a := big.NewInt(3)
	ca, err := dk.EncryptWith(a, randomNonce(t, n))
	require.NoError(t, err)

	scaled, err := dk.Omul(big.NewInt(5), ca)
	require.NoError(t, err)

	got, err := dk.Decrypt(scaled)
	require.NoError(t, err)
	assert.Equal(t, "15", got.String())
}

func TestOmulFastPathMatchesSlowPath(t *testing.T) {
	dk := testDecryptionKey(t)
	ek, err := paillier.FromN(dk.N())
	require.NoError(t, err)

	ca, err := dk.EncryptWith(big.NewInt(3), randomNonce(t, dk.N()))
	require.NoError(t, err)

	fast, err := dk.Omul(big.NewInt(5), ca)
	require.NoError(t, err)
	slow, err := ek.Omul(big.NewInt(5), ca)
	require.NoError(t, err)
	assert.Equal(t, slow.String(), fast.String())
}

func TestOmulRejectsScalarNotCoprimeToN(t *testing.T) {
	dk := testDecryptionKey(t)
	ca, err := dk.EncryptWith(big.NewInt(3), randomNonce(t, dk.N()))
	require.NoError(t, err)

	_, err = dk.Omul(dk.P(), ca)
	assert.Error(t, err)
}

func TestEncryptWithRandomRoundTrips(t *testing.T) {
	dk := testDecryptionKey(t)
	x := big.NewInt(-2)

	c, nonce, err := dk.EncryptWithRandom(rand.Reader, x)
	require.NoError(t, err)
	assert.NotNil(t, nonce)

	got, err := dk.Decrypt(c)
	require.NoError(t, err)
	assert.Equal(t, x.String(), got.String())
}

func TestAnyEncryptionKeyAcceptsBothKeyTypes(t *testing.T) {
	dk := testDecryptionKey(t)
	ek, err := paillier.FromN(dk.N())
	require.NoError(t, err)

	var keys = []paillier.AnyEncryptionKey{dk, ek}
	for _, k := range keys {
		r := randomNonce(t, k.N())
		_, err := k.EncryptWith(big.NewInt(1), r)
		assert.NoError(t, err)
	}
}

func TestDebugStringsHideSecrets(t *testing.T) {
	// 19-digit safe primes: longer than the 16 hex digits of the fingerprint,
	// so a match below can only come from the key's own fields. With the
	// single-digit testKeyPrimes a digit like "7" can appear in the hash.
	dk, err := paillier.FromPrimes(big.NewInt(4611686018427394499), big.NewInt(4611686018427395927))
	require.NoError(t, err)
	s := dk.String()
	assert.NotContains(t, s, dk.P().String())
	assert.NotContains(t, s, dk.Q().String())
	assert.NotContains(t, s, dk.Lambda().String())
}

func randomNonce(t *testing.T, n *big.Int) *big.Int {
	t.Helper()
	for {
		r, err := rand.Int(rand.Reader, n)
		require.NoError(t, err)
		if r.Sign() == 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, r, n).Cmp(big.NewInt(1)) == 0 {
			return r
		}
	}
}
