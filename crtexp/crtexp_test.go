// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package crtexp_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFDT-Lockness/fast-paillier/crtexp"
)

func TestCrtExpMatchesNaivePowMod(t *testing.T) {
	p := big.NewInt(11)
	q := big.NewInt(13)

	ce, err := crtexp.BuildN(p, q)
	require.NoError(t, err)

	n := new(big.Int).Mul(p, q)
	e := ce.PrepareExponent(big.NewInt(17))

	for x := int64(1); x < 143; x++ {
		if new(big.Int).GCD(nil, nil, big.NewInt(x), n).Cmp(big.NewInt(1)) != 0 {
			continue
		}
		got, err := ce.Exp(big.NewInt(x), e)
		require.NoError(t, err)

		want := new(big.Int).Exp(big.NewInt(x), big.NewInt(17), n)
		assert.Equal(t, want.String(), got.String(), "mismatch for x=%d", x)
	}
}

func TestCrtExpNegativeExponentInverts(t *testing.T) {
	p := big.NewInt(11)
	q := big.NewInt(13)
	n := new(big.Int).Mul(p, q)

	ce, err := crtexp.BuildN(p, q)
	require.NoError(t, err)

	exp := ce.PrepareExponent(big.NewInt(-3))
	x := big.NewInt(7)

	got, err := ce.Exp(x, exp)
	require.NoError(t, err)

	forward := new(big.Int).Exp(x, big.NewInt(3), n)
	want := new(big.Int).ModInverse(forward, n)
	require.NotNil(t, want)
	assert.Equal(t, want.String(), got.String())
}

func TestCrtExpNNMatchesNaive(t *testing.T) {
	p := big.NewInt(11)
	q := big.NewInt(13)
	n := new(big.Int).Mul(p, q)
	nn := new(big.Int).Mul(n, n)

	ce, err := crtexp.BuildNN(p, q)
	require.NoError(t, err)

	exp := ce.PrepareExponent(n)
	x := big.NewInt(5)

	got, err := ce.Exp(x, exp)
	require.NoError(t, err)

	want := new(big.Int).Exp(x, n, nn)
	assert.Equal(t, want.String(), got.String())
}

func TestBuildRejectsNonCoprimeModuli(t *testing.T) {
	_, err := crtexp.Build(big.NewInt(4), big.NewInt(2), big.NewInt(6), big.NewInt(2))
	assert.Error(t, err)
}

func TestBuildRejectsNonPositiveArguments(t *testing.T) {
	_, err := crtexp.Build(big.NewInt(0), big.NewInt(1), big.NewInt(5), big.NewInt(4))
	assert.Error(t, err)
}

func TestCrtExpDebugStringsHideSecrets(t *testing.T) {
	ce, err := crtexp.BuildN(big.NewInt(11), big.NewInt(13))
	require.NoError(t, err)
	exp := ce.PrepareExponent(big.NewInt(7))

	assert.Equal(t, "CrtExp", fmt.Sprintf("%v", ce))
	assert.Equal(t, "CrtExponent", fmt.Sprintf("%v", exp))
}
