// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Checker runs the k-anonymity breach lookup. It keeps no state between calls: every range is parsed,
// matched and dropped within the call that fetched it.
type Checker struct {
	transport RangeTransport
	mode      Mode
}

// NewChecker creates a Checker that hashes with mode and fetches ranges through transport.
func NewChecker(transport RangeTransport, mode Mode) *Checker {
	return &Checker{transport: transport, mode: mode}
}

func (c *Checker) Mode() Mode {
	return c.mode
}

// Check reports how many times password appears in the breach corpus. Every error is a *LookupError and
// means the exposure is unknown.
func (c *Checker) Check(ctx context.Context, password string) (Exposure, error) {
	d, err := Sum(c.mode, password)
	if err != nil {
		return Exposure{}, &LookupError{Cause: err}
	}

	return c.CheckDigest(ctx, d)
}

// CheckDigest is Check for a digest computed by the caller.
func (c *Checker) CheckDigest(ctx context.Context, d Digest) (Exposure, error) {
	if d.IsZero() {
		return Exposure{}, &LookupError{Cause: ErrInvalidDigest}
	}
	if d.Mode() != c.mode {
		return Exposure{}, &LookupError{
			Prefix: d.Prefix(),
			Cause:  fmt.Errorf("%w: %s digest for a %s checker", ErrInvalidDigest, d.Mode(), c.mode),
		}
	}

	body, err := c.transport.Range(ctx, d.Prefix(), c.mode)
	if err != nil {
		le := &LookupError{Prefix: d.Prefix(), Cause: err}
		var se *StatusError
		if errors.As(err, &se) {
			le.StatusCode = se.StatusCode
		}
		return Exposure{}, le
	}

	set, err := ParseRange(body, c.mode)
	if err != nil {
		return Exposure{}, &LookupError{Prefix: d.Prefix(), Cause: err}
	}

	exposure := set.Lookup(d.Suffix())
	log.Debug().Msgf("range %s has %d candidates", d.Prefix(), len(set))
	return exposure, nil
}
