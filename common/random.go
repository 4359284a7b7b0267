// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/pkg/errors"
)

const mustGetRandomIntMaxBits = 8192

// MustGetRandomInt draws a uniform random integer in [0, 2^bits) from rng.
// It panics if rng cannot be read or bits is out of range; every caller in
// this module passes crypto/rand.Reader (or a deterministic test double),
// for which a read failure means the OS entropy source itself is broken.
func MustGetRandomInt(rng io.Reader, bits int) *big.Int {
	if bits <= 0 || mustGetRandomIntMaxBits < bits {
		panic(fmt.Errorf("MustGetRandomInt: bits should be positive, non-zero and at most %d", mustGetRandomIntMaxBits))
	}
	max := new(big.Int).Lsh(one, uint(bits))
	max.Sub(max, one)

	n, err := randInt(rng, max)
	if err != nil {
		panic(errors.Wrap(err, "MustGetRandomInt: failed to read from rng"))
	}
	return n
}

// GetRandomPositiveInt returns a uniform random integer in [0, lessThan).
func GetRandomPositiveInt(rng io.Reader, lessThan *big.Int) *big.Int {
	if lessThan == nil || lessThan.Cmp(zero) <= 0 {
		return nil
	}
	for {
		try := MustGetRandomInt(rng, lessThan.BitLen())
		if try.Cmp(lessThan) < 0 && try.Cmp(zero) >= 0 {
			return try
		}
	}
}

// GetRandomPositiveRelativelyPrimeInt samples, by rejection, a uniform
// element of the multiplicative group Z*_n (1 <= x < n, gcd(x, n) = 1).
func GetRandomPositiveRelativelyPrimeInt(rng io.Reader, n *big.Int) *big.Int {
	if n == nil || n.Cmp(zero) <= 0 {
		return nil
	}
	for {
		try := MustGetRandomInt(rng, n.BitLen())
		if IsNumberInMultiplicativeGroup(n, try) {
			return try
		}
	}
}

// IsNumberInMultiplicativeGroup reports whether 1 <= v < n and gcd(v, n) = 1,
// i.e. whether v is an element of Z*_n.
func IsNumberInMultiplicativeGroup(n, v *big.Int) bool {
	if n == nil || v == nil || n.Cmp(zero) <= 0 {
		return false
	}
	if v.Cmp(n) >= 0 || v.Cmp(one) < 0 {
		return false
	}
	gcd := new(big.Int).GCD(nil, nil, v, n)
	return gcd.Cmp(one) == 0
}

// randInt draws a uniform random value in [0, max] from rng, the same
// contract as crypto/rand.Int but over an explicit reader so callers can
// swap in a deterministic source in tests.
func randInt(rng io.Reader, max *big.Int) (*big.Int, error) {
	bitLen := max.BitLen()
	byteLen := (bitLen + 7) / 8
	if byteLen == 0 {
		return new(big.Int), nil
	}
	buf := make([]byte, byteLen)
	for {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, err
		}
		// Clear the excess high bits so the candidate can't run past
		// max's bit length, then reject on the rarer overflow.
		if excess := uint(byteLen*8) - uint(bitLen); excess > 0 {
			buf[0] &= uint8(0xff >> excess)
		}
		n := new(big.Int).SetBytes(buf)
		if n.Cmp(max) <= 0 {
			return n, nil
		}
	}
}

// syncReader serializes concurrent Read calls against an underlying reader
// that makes no concurrency guarantee of its own. crypto/rand.Reader is safe
// for concurrent use already, but an arbitrary caller-supplied io.Reader
// (a seeded bytes.Reader, a bufio.Reader, anything used for reproducible
// test vectors) generally is not: racing Read calls can corrupt a stateful
// reader's internal offset and hand two goroutines overlapping byte ranges.
type syncReader struct {
	mu  sync.Mutex
	rng io.Reader
}

func (s *syncReader) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Read(p)
}

// Synchronize wraps rng so that concurrent callers may share it safely,
// serializing their Read calls behind a mutex rather than requiring each
// caller to know whether rng itself is concurrency-safe.
func Synchronize(rng io.Reader) io.Reader {
	return &syncReader{rng: rng}
}

// RandomBits draws k uniform random bits and returns them as a non-negative
// integer of bit length at most k.
func RandomBits(rng io.Reader, k uint) (*big.Int, error) {
	byteLen := (k + 7) / 8
	buf := make([]byte, byteLen)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, errors.Wrap(err, "RandomBits: failed to read from rng")
	}
	if excess := byteLen*8 - k; excess > 0 && byteLen > 0 {
		buf[0] &= uint8(0xff >> excess)
	}
	return new(big.Int).SetBytes(buf), nil
}
