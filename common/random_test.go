// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common_test

import (
	"crypto/rand"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LFDT-Lockness/fast-paillier/common"
)

const randomIntBitLen = 1024

func TestGetRandomInt(t *testing.T) {
	rnd := common.MustGetRandomInt(rand.Reader, randomIntBitLen)
	assert.NotZero(t, rnd, "rand int should not be zero")
	assert.True(t, rnd.BitLen() <= randomIntBitLen)
}

func TestGetRandomPositiveInt(t *testing.T) {
	rnd := common.MustGetRandomInt(rand.Reader, randomIntBitLen)
	rndPos := common.GetRandomPositiveInt(rand.Reader, rnd)
	assert.NotZero(t, rndPos, "rand int should not be zero")
	assert.True(t, rndPos.Cmp(big.NewInt(0)) >= 0, "rand int should be non-negative")
	assert.True(t, rndPos.Cmp(rnd) < 0, "rand int should be less than bound")
}

func TestGetRandomPositiveRelativelyPrimeInt(t *testing.T) {
	n := big.NewInt(221) // 13 * 17
	rndPosRP := common.GetRandomPositiveRelativelyPrimeInt(rand.Reader, n)
	assert.NotZero(t, rndPosRP, "rand int should not be zero")
	assert.True(t, common.IsNumberInMultiplicativeGroup(n, rndPosRP))
	assert.True(t, rndPosRP.Cmp(big.NewInt(0)) == 1, "rand int should be positive")
}

func TestIsNumberInMultiplicativeGroup(t *testing.T) {
	n := big.NewInt(15)
	assert.True(t, common.IsNumberInMultiplicativeGroup(n, big.NewInt(4)))
	assert.False(t, common.IsNumberInMultiplicativeGroup(n, big.NewInt(3)))
	assert.False(t, common.IsNumberInMultiplicativeGroup(n, big.NewInt(0)))
	assert.False(t, common.IsNumberInMultiplicativeGroup(n, big.NewInt(15)))
}

func TestRandomBits(t *testing.T) {
	bits, err := common.RandomBits(rand.Reader, 256)
	assert.NoError(t, err)
	assert.True(t, bits.BitLen() <= 256)
}

// reentrancyDetectingReader reports an error if Read is entered while
// another call is already in flight, the way a stateful reader with no
// internal locking (a bytes.Reader, a seeded math/rand stream) would
// corrupt its offset under concurrent use.
type reentrancyDetectingReader struct {
	busy int32
}

func (r *reentrancyDetectingReader) Read(p []byte) (int, error) {
	if !atomic.CompareAndSwapInt32(&r.busy, 0, 1) {
		return 0, assert.AnError
	}
	defer atomic.StoreInt32(&r.busy, 0)
	for i := range p {
		p[i] = 0x42
	}
	return len(p), nil
}

func TestSynchronizeSerializesConcurrentReads(t *testing.T) {
	rng := common.Synchronize(&reentrancyDetectingReader{})

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 32)
			_, err := rng.Read(buf)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
