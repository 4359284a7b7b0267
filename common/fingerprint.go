// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

// Fingerprint returns a short, non-reversible identifier for n, suitable for
// log lines that need to name a key without ever printing N, p, q, lambda,
// or mu in the clear.
func Fingerprint(n *big.Int) string {
	if n == nil {
		return "<nil>"
	}
	sum := sha256.Sum256(n.Bytes())
	return hex.EncodeToString(sum[:8])
}
