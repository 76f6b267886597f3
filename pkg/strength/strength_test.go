// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"crypto/rand"
	"errors"
	"math/big"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name     string
		password string
		score    int
		label    Band
		classes  int
	}{
		{"empty", "", 0, VeryWeak, 0},
		{"short lowercase", "abc", 21, VeryWeak, 1},
		{"dictionary word", "password", 40, Weak, 1},
		{"mixed ten", "Abcdefgh1!", 77, Moderate, 4},
		{"long single class", "aaaaaaaaaaaaaaaaaaaa", 70, Moderate, 1},
		{"long three classes", "Abcdefghijklmnop1", 90, VeryStrong, 3},
		{"full length all classes", "Tr0ub4dor&3xyzQW", 100, VeryStrong, 4},
		{"caseless letters", "日本語", 11, VeryWeak, 0},
		{"space is a symbol", " ", 13, VeryWeak, 1},
		{"invalid utf8", "\xff\xfe", 17, VeryWeak, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Score(tc.password)
			if r.Score != tc.score {
				t.Errorf("Score should be %d, got %d", tc.score, r.Score)
			}
			if r.Label != tc.label {
				t.Errorf("Label should be %s, got %s", tc.label, r.Label)
			}
			if r.Classes != tc.classes {
				t.Errorf("Classes should be %d, got %d", tc.classes, r.Classes)
			}
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	for _, p := range []string{"", "password", "Tr0ub4dor&3", "correct horse battery staple"} {
		if !reflect.DeepEqual(Score(p), Score(p)) {
			t.Errorf("Scoring %q twice should give the same report", p)
		}
	}
}

func TestScore_Factors(t *testing.T) {
	r := Score("abcD")

	want := []Factor{
		{Name: FactorLength, Satisfied: false, Points: 15},
		{Name: FactorLowercase, Satisfied: true, Points: 10},
		{Name: FactorUppercase, Satisfied: true, Points: 10},
		{Name: FactorDigit, Satisfied: false, Points: 0},
		{Name: FactorSymbol, Satisfied: false, Points: 0},
	}
	if !reflect.DeepEqual(r.Factors, want) {
		t.Errorf("Factors should be %v, got %v", want, r.Factors)
	}
	if r.Length != 4 {
		t.Errorf("Length should be 4, got %d", r.Length)
	}
}

func TestScore_LengthCountsCodePoints(t *testing.T) {
	if r := Score("ñandú"); r.Length != 5 {
		t.Errorf("Length should be 5, got %d", r.Length)
	}
}

func TestScore_WarningsDoNotChangeScore(t *testing.T) {
	// Contains "password" and "1234" but is long with every class.
	r := Score("MyPassword1234!!xyz")

	if r.Label != VeryStrong {
		t.Errorf("Label should be %s, got %s", VeryStrong, r.Label)
	}
	for _, w := range []string{
		"Avoid using the word 'password' or obvious phrases.",
		"Avoid common patterns like 1234, 1111, 0000 or qwerty.",
	} {
		if !contains(r.Warnings, w) {
			t.Errorf("Warnings should contain %q, got %v", w, r.Warnings)
		}
	}
}

func TestScore_EmptyHasNoWarnings(t *testing.T) {
	r := Score("")
	if len(r.Warnings) != 0 {
		t.Errorf("Should not warn on an empty password, got %v", r.Warnings)
	}
	if r.Estimate.Score != 0 {
		t.Errorf("Estimate should be 0, got %d", r.Estimate.Score)
	}
}

func TestScore_RandomLongPasswordIsTopBand(t *testing.T) {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()-_=+"
	buf := make([]byte, 0, 24)
	for i := 0; i < 20; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			t.Fatalf("Should not fail: %s", err)
		}
		buf = append(buf, alphabet[n.Int64()])
	}
	// Guarantee every class is present.
	buf = append(buf, 'a', 'Z', '7', '#')

	r := Score(string(buf))
	if r.Label != VeryStrong || r.Score != MaxScore {
		t.Errorf("Should be %s with %d, got %s with %d", VeryStrong, MaxScore, r.Label, r.Score)
	}
	if r.Estimate.Score <= 2 {
		t.Errorf("Estimate should be above 2, got %d", r.Estimate.Score)
	}
}

func TestScore_LongPasswordIsBounded(t *testing.T) {
	password := strings.Repeat("aB3!x", 2000)

	start := time.Now()
	r := Score(password)
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Scoring 10000 characters should be fast, took %s", elapsed)
	}

	if r.Length != 10000 {
		t.Errorf("Length should count every code point, got %d", r.Length)
	}
	if r.Score != MaxScore {
		t.Errorf("Score should be %d, got %d", MaxScore, r.Score)
	}
	if want := estimate(password[:MaxEstimateLength]); r.Estimate != want {
		t.Errorf("Estimate should only cover the first %d code points: want %v, got %v", MaxEstimateLength, want, r.Estimate)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		input string
		n     int
		want  string
	}{
		{"", 3, ""},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"ñandú", 2, "ña"},
		{"日本語です", 3, "日本語"},
	}

	for _, tc := range cases {
		if got := truncate(tc.input, tc.n); got != tc.want {
			t.Errorf("truncate(%q, %d) should be %q, got %q", tc.input, tc.n, tc.want, got)
		}
	}
}

func TestNewScorer(t *testing.T) {
	if _, err := NewScorer(Weights{FullCreditLength: 12, LengthWeight: 50, ClassWeight: 10}); !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("Should fail with %s, got %v", ErrInvalidWeights, err)
	}

	if _, err := NewScorer(Weights{FullCreditLength: 0, LengthWeight: 60, ClassWeight: 10}); !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("Should fail with %s, got %v", ErrInvalidWeights, err)
	}

	s, err := NewScorer(Weights{FullCreditLength: 12, LengthWeight: 40, ClassWeight: 15})
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}

	r := s.Score("Abcdefghij1!")
	if r.Score != MaxScore {
		t.Errorf("Score should be %d, got %d", MaxScore, r.Score)
	}
	if !r.Factors[0].Satisfied {
		t.Errorf("Length factor should be satisfied")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
