// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import "encoding/json"

// Band is the qualitative label of a score. Bands are ordered: a higher Band means a stronger password.
type Band int

const (
	VeryWeak Band = iota
	Weak
	Moderate
	Strong
	VeryStrong
)

// bandFloors holds the lowest score of each band, in band order.
var bandFloors = [...]int{
	VeryWeak:   0,
	Weak:       40,
	Moderate:   60,
	Strong:     80,
	VeryStrong: 90,
}

var bandNames = [...]string{
	VeryWeak:   "Very Weak",
	Weak:       "Weak",
	Moderate:   "Moderate",
	Strong:     "Strong",
	VeryStrong: "Very Strong",
}

// BandFor maps a score to its band. Scores outside [0,100] are clamped first.
func BandFor(score int) Band {
	score = max(MinScore, min(score, MaxScore))
	b := VeryWeak
	for i, floor := range bandFloors {
		if score >= floor {
			b = Band(i)
		}
	}
	return b
}

// Range returns the inclusive score bounds of the band.
func (b Band) Range() (lo, hi int) {
	lo = bandFloors[b]
	if b == VeryStrong {
		return lo, MaxScore
	}
	return lo, bandFloors[b+1] - 1
}

func (b Band) String() string {
	if b < VeryWeak || b > VeryStrong {
		return "Unknown"
	}
	return bandNames[b]
}

func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}
