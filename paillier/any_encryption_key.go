// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package paillier

import "math/big"

// AnyEncryptionKey is implemented by both EncryptionKey and DecryptionKey.
// Callers that only need to encrypt or combine ciphertexts can accept this
// interface and transparently benefit from the fast CRT path when handed a
// DecryptionKey, without needing two call sites.
type AnyEncryptionKey interface {
	N() *big.Int
	NSquare() *big.Int
	HalfN() *big.Int
	InSignedGroup(x *big.Int) bool
	EncryptWith(x, r *big.Int) (*big.Int, error)
	Oadd(c1, c2 *big.Int) (*big.Int, error)
	Osub(c1, c2 *big.Int) (*big.Int, error)
	Omul(a, c *big.Int) (*big.Int, error)
	Oneg(c *big.Int) (*big.Int, error)
}

var (
	_ AnyEncryptionKey = (*EncryptionKey)(nil)
	_ AnyEncryptionKey = (*DecryptionKey)(nil)
)
