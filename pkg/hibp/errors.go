// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrMalformedRange   = errors.New("malformed range response")
	ErrBodyTooLarge     = errors.New("range response too large")
)

// StatusError is returned by a transport when the range API answers with a non 2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnexpectedStatus, e.Status)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// LookupError means the breach status of a password could not be determined. It is never a "not found".
type LookupError struct {
	// Prefix is the digest prefix of the failed lookup, empty if hashing failed.
	Prefix string
	// StatusCode is the HTTP status of the range response, 0 when none was received.
	StatusCode int
	Cause      error
}

func (e *LookupError) Error() string {
	var b strings.Builder
	b.WriteString("breach lookup failed")
	if e.Prefix != "" {
		fmt.Fprintf(&b, " for range %s", e.Prefix)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %s", e.Cause)
	}
	return b.String()
}

func (e *LookupError) Unwrap() error {
	return e.Cause
}
