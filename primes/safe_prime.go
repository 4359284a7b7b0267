// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package primes

import (
	"io"
	"math/big"

	"github.com/LFDT-Lockness/fast-paillier/common"
)

// DefaultSieveSize is the number of small odd primes consulted by the sieve
// in GenerateSafePrime before a candidate is handed to Miller-Rabin. 135 is
// tuned for the 1500-1700 bit safe primes a Paillier key of common sizes
// needs; callers generating much smaller or larger primes may find a
// different size cheaper and can call GenerateSafePrimeWithSieve directly.
const DefaultSieveSize = 135

// millerRabinRounds is the number of Miller-Rabin rounds run on both the
// Sophie Germain candidate and the safe prime itself. big.Int.ProbablyPrime
// already runs a Baillie-PSW test in addition to the requested number of
// Miller-Rabin rounds, so 25 rounds here gives an error probability well
// below 2^-64 combined with that additional test.
const millerRabinRounds = 25

// GenerateSafePrime draws a safe prime q of exactly bits bits: q is probably
// prime and (q-1)/2 is probably prime too. It sieves candidates against the
// first DefaultSieveSize odd primes before running Miller-Rabin, which is
// the dominant cost at the bit lengths Paillier keys use.
func GenerateSafePrime(rng io.Reader, bits int) (*big.Int, error) {
	return GenerateSafePrimeWithSieve(rng, bits, DefaultSieveSize)
}

// GenerateSafePrimeWithSieve is GenerateSafePrime with an explicit sieve
// table size (the number of leading entries of SmallOddPrimes to check).
// Larger sieves reject more composite candidates before the expensive
// Miller-Rabin step, at the cost of more modular reductions per candidate;
// the crossover point depends on bits and is only worth tuning away from
// DefaultSieveSize for unusually small or large keys.
func GenerateSafePrimeWithSieve(rng io.Reader, bits int, amount int) (*big.Int, error) {
	if bits < 3 {
		panic("primes: GenerateSafePrimeWithSieve requires bits >= 3")
	}
	table := sieveTable(amount)

	candidateBits := uint(bits - 1)
	two := big.NewInt(2)
	one := big.NewInt(1)

	for {
		pPrime, err := common.RandomBits(rng, candidateBits)
		if err != nil {
			return nil, err
		}
		pPrime.SetBit(pPrime, int(candidateBits-1), 1)
		pPrime.SetBit(pPrime, 0, 1)

		if sieveRejects(pPrime, table) {
			continue
		}
		if !pPrime.ProbablyPrime(millerRabinRounds) {
			continue
		}

		q := new(big.Int).Mul(pPrime, two)
		q.Add(q, one)

		if !q.ProbablyPrime(millerRabinRounds) {
			continue
		}
		return q, nil
	}
}

// sieveTable returns the leading amount entries of SmallOddPrimes, or the
// whole table if amount exceeds its length.
func sieveTable(amount int) []uint64 {
	all := SmallOddPrimes()
	if amount <= 0 {
		panic("primes: sieve amount must be positive")
	}
	if amount > len(all) {
		amount = len(all)
	}
	return all[:amount]
}

// sieveRejects reports whether 2*pPrime+1 is a proper multiple of one of the
// sieve primes: for an odd prime s, 2*pPrime+1 is divisible by s exactly when
// pPrime mod s == (s-1)/2, and it is s itself when pPrime == (s-1)/2.
func sieveRejects(pPrime *big.Int, table []uint64) bool {
	mod := new(big.Int)
	for _, s := range table {
		sBig := new(big.Int).SetUint64(s)
		mod.Mod(pPrime, sBig)
		if mod.Uint64()*2+1 == s && pPrime.Cmp(mod) != 0 {
			return true
		}
	}
	return false
}
