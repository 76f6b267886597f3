// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Exposure is the result of matching a digest suffix against a range.
type Exposure struct {
	Found bool   `json:"found"`
	Count uint64 `json:"count"`
}

// CandidateSet maps every upper case suffix of a range to the number of times it was seen in breaches.
type CandidateSet map[string]uint64

// ParseRange parses a range API response body. Each non-empty line must be SUFFIX:COUNT, with a suffix of
// mode.SuffixLen() hex characters. Malformed and duplicate lines fail the whole parse. An empty body is a
// valid, empty range.
func ParseRange(body []byte, mode Mode) (CandidateSet, error) {
	set := make(CandidateSet, bytes.Count(body, []byte{'\n'})+1)

	for i, raw := range bytes.Split(body, []byte{'\n'}) {
		line := string(bytes.TrimSuffix(raw, []byte{'\r'}))
		if line == "" {
			continue
		}

		suffix, count, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: missing ':' separator", ErrMalformedRange, i+1)
		}
		if len(suffix) != mode.SuffixLen() || !isHex(suffix) {
			return nil, fmt.Errorf("%w: line %d: suffix is not %d hex characters", ErrMalformedRange, i+1, mode.SuffixLen())
		}

		n, err := strconv.ParseUint(count, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid count %q", ErrMalformedRange, i+1, count)
		}

		suffix = strings.ToUpper(suffix)
		if _, dup := set[suffix]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate suffix", ErrMalformedRange, i+1)
		}
		set[suffix] = n
	}

	return set, nil
}

// Lookup matches suffix against the set, ignoring case. Padding entries (count 0) are not a match.
func (s CandidateSet) Lookup(suffix string) Exposure {
	if n := s[strings.ToUpper(suffix)]; n > 0 {
		return Exposure{Found: true, Count: n}
	}
	return Exposure{}
}
