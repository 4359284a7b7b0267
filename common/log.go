// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	golog "github.com/ipfs/go-log"
)

// Logger is the package-wide structured logger. Key generation is the only
// operation in this module slow enough to need progress output; everything
// else is a pure, synchronous computation that either returns or errors.
var Logger = golog.Logger("fast-paillier")

// SetLogLevel adjusts the verbosity of Logger. level follows go-log's
// convention: "debug", "info", "warn", "error", "fatal", "panic".
func SetLogLevel(level string) error {
	return golog.SetLogLevel("fast-paillier", level)
}
