// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package hibp checks passwords against the Pwned Passwords corpus using its k-anonymity range API.
//
// The password is hashed locally and only the first PrefixLen hex characters of the digest leave the
// process. The returned range holds every breached suffix sharing that prefix, and the match against the
// local suffix is done here.
package hibp

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/md4"
	"golang.org/x/text/encoding/unicode"
)

// PrefixLen is the number of hex characters of the digest sent to the range API.
const PrefixLen = 5

// Mode is the hash function of the corpus being queried.
type Mode int

const (
	// ModeSHA1 queries the SHA-1 corpus. This is the API default.
	ModeSHA1 Mode = iota
	// ModeNTLM queries the NTLM corpus (MD4 over UTF-16LE).
	ModeNTLM
)

var ErrInvalidDigest = errors.New("invalid digest")

// ParseMode parses the textual name of a Mode. An empty name is ModeSHA1.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sha1":
		return ModeSHA1, nil
	case "ntlm":
		return ModeNTLM, nil
	}
	return ModeSHA1, fmt.Errorf("unknown hash mode %q", s)
}

func (m Mode) String() string {
	if m == ModeNTLM {
		return "ntlm"
	}
	return "sha1"
}

// DigestLen is the length in hex characters of a digest in this mode.
func (m Mode) DigestLen() int {
	if m == ModeNTLM {
		return md4.Size * 2
	}
	return sha1.Size * 2
}

// SuffixLen is the length in hex characters of the suffix returned by the range API in this mode.
func (m Mode) SuffixLen() int {
	return m.DigestLen() - PrefixLen
}

// Digest is the upper case hex encoded hash of a password.
type Digest struct {
	mode Mode
	hex  string
}

// Sum hashes password locally. Only ModeNTLM can fail, when the password cannot be encoded as UTF-16.
func Sum(mode Mode, password string) (Digest, error) {
	var sum []byte
	switch mode {
	case ModeNTLM:
		utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().String(password)
		if err != nil {
			return Digest{}, fmt.Errorf("encoding password as UTF-16: %w", err)
		}
		h := md4.New()
		h.Write([]byte(utf16))
		sum = h.Sum(nil)
	default:
		s := sha1.Sum([]byte(password))
		sum = s[:]
	}

	return Digest{mode: mode, hex: strings.ToUpper(hex.EncodeToString(sum))}, nil
}

// ParseDigest validates a hex encoded digest supplied by the caller. Case is ignored.
func ParseDigest(mode Mode, s string) (Digest, error) {
	s = strings.TrimSpace(s)
	if len(s) != mode.DigestLen() {
		return Digest{}, fmt.Errorf("%w: want %d hex characters for %s, got %d", ErrInvalidDigest, mode.DigestLen(), mode, len(s))
	}
	if !isHex(s) {
		return Digest{}, fmt.Errorf("%w: not hexadecimal", ErrInvalidDigest)
	}

	return Digest{mode: mode, hex: strings.ToUpper(s)}, nil
}

func (d Digest) Mode() Mode {
	return d.mode
}

// Prefix is the part of the digest sent to the range API.
func (d Digest) Prefix() string {
	return d.hex[:PrefixLen]
}

// Suffix is the part of the digest that never leaves the process.
func (d Digest) Suffix() string {
	return d.hex[PrefixLen:]
}

func (d Digest) String() string {
	return d.hex
}

func (d Digest) IsZero() bool {
	return d.hex == ""
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
