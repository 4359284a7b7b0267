// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package primes

import (
	"sort"

	otiaiprimes "github.com/otiai10/primes"
)

// smallPrimesUpperBound is large enough to produce well over 150 odd
// primes (pi(2000) = 303) without pulling in primes so large the sieve
// check in GenerateSafePrimeWithSieve stops being cheap.
const smallPrimesUpperBound = 2000

// smallOddPrimes is the static table of small odd primes used to sieve
// safe-prime candidates before running Miller-Rabin on them. It is built
// once, at init time, from the same trial-division sieve the teacher
// primes the global cache with (see init() in crypto/paillier/paillier.go
// in the teacher repo).
var smallOddPrimes = buildSmallOddPrimes()

func buildSmallOddPrimes() []uint64 {
	list := otiaiprimes.Until(smallPrimesUpperBound).List()
	out := make([]uint64, 0, len(list))
	for _, p := range list {
		if p == 2 {
			continue
		}
		out = append(out, uint64(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	if len(out) < 150 {
		// Defensive: otiai10/primes is deterministic, so this only fires
		// if smallPrimesUpperBound is ever lowered below pi^-1(150).
		panic("primes: small odd prime table has fewer than 150 entries")
	}
	return out
}

// SmallOddPrimes returns the static table of small odd primes (at least
// 150 entries) used by the sieve in GenerateSafePrimeWithSieve.
func SmallOddPrimes() []uint64 {
	return smallOddPrimes
}
