// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package cipher

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"strconv"

	"github.com/samber/oops"
)

// Error codes for message validation.
const (
	CodeMessageRequired = "MESSAGE_REQUIRED"
	CodeMessageInvalid  = "MESSAGE_INVALID"
	CodeMessageEmpty    = "MESSAGE_EMPTY"
)

// MaxElementDigits bounds the digits of one integer literal. Decimal
// conversion is superlinear in length, so longer literals are rejected
// before conversion. Every finite float64 fits.
const MaxElementDigits = 400

var integerLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)

// Parse decodes a raw JSON message into its integer elements.
//
// A missing value and the JSON falsy literals (null, false, 0, "") are
// reported as missing. Anything that is not an array of integers is invalid.
// Numbers written with a fraction or exponent are accepted when they are
// whole, so 2.0 and 1e3 are integers; 1.5 is not.
func Parse(raw json.RawMessage) ([]*big.Int, error) {
	raw = bytes.TrimSpace(raw)
	if isFalsy(raw) {
		return nil, oops.Code(CodeMessageRequired).Errorf("Message is required")
	}
	if raw[0] != '[' {
		return nil, errInvalid()
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, errInvalid()
	}

	out := make([]*big.Int, 0, len(elems))
	for i, elem := range elems {
		n, ok := parseInteger(bytes.TrimSpace(elem))
		if !ok {
			return nil, oops.Code(CodeMessageInvalid).
				With("index", i).
				Errorf("Message must be an array of integers")
		}
		out = append(out, n)
	}

	if len(out) == 0 {
		return nil, oops.Code(CodeMessageEmpty).Errorf("Message array cannot be empty")
	}
	return out, nil
}

func errInvalid() error {
	return oops.Code(CodeMessageInvalid).Errorf("Message must be an array of integers")
}

func isFalsy(raw []byte) bool {
	switch string(raw) {
	case "", "null", "false", `""`:
		return true
	}
	if len(raw) > 0 && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f == 0
	}
	return false
}

func parseInteger(lit []byte) (*big.Int, bool) {
	if len(lit) == 0 {
		return nil, false
	}
	if c := lit[0]; c != '-' && (c < '0' || c > '9') {
		return nil, false
	}

	if digits(lit) > MaxElementDigits {
		return nil, false
	}

	s := string(lit)
	if integerLiteral.MatchString(s) {
		n, ok := new(big.Int).SetString(s, 10)
		return n, ok
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	n, _ := big.NewFloat(f).Int(nil)
	return n, true
}

// digits counts the significand digits of a numeric literal, stopping at
// an exponent marker.
func digits(lit []byte) int {
	n := 0
	for _, c := range lit {
		if c == 'e' || c == 'E' {
			break
		}
		if c >= '0' && c <= '9' {
			n++
		}
	}
	return n
}
