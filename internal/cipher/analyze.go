// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package cipher

import "math/big"

// Classification is the verdict for a message.
type Classification string

// Classifications.
const (
	Trap  Classification = "trap"
	Legit Classification = "legit"
)

// Status texts returned to clients.
const (
	TrapStatus  = "Trap detected - message is not in ascending order"
	LegitStatus = "Legit message decoded successfully"
)

// Analysis is the outcome of Analyze.
type Analysis struct {
	Classification Classification
	// Value is -1 for a trap and the sum of the elements otherwise.
	Value *big.Int
}

// Status returns the client-facing status text.
func (a Analysis) Status() string {
	if a.Classification == Trap {
		return TrapStatus
	}
	return LegitStatus
}

// Analyze classifies a parsed message. It does not modify msg.
func Analyze(msg []*big.Int) Analysis {
	for i := 0; i+1 < len(msg); i++ {
		if msg[i].Cmp(msg[i+1]) > 0 {
			return Analysis{Classification: Trap, Value: big.NewInt(-1)}
		}
	}

	sum := new(big.Int)
	for _, n := range msg {
		sum.Add(sum, n)
	}
	return Analysis{Classification: Legit, Value: sum}
}
