// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

// Package cipher validates submitted messages and classifies them.
//
// A message is a JSON array of integers. A message with any adjacent
// descending pair is a trap and decodes to -1; otherwise it is legitimate
// and decodes to the exact sum of its elements. Equal neighbours do not make
// a trap.
//
// Integers are arbitrary precision: literals longer than int64 are accepted
// exactly and the sum never overflows.
package cipher
