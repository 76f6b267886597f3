// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package evaluate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alvinbaena/pwdguard/pkg/hibp"
	"github.com/alvinbaena/pwdguard/pkg/strength"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passwordRange = "1E4C9B93F3F0682250B6CF8331B7EE68FD8:9545824\r\n" +
	"1F2B668E8AABEF1C59E9EC6F82E3F3CD786:1\r\n"

type fakeTransport struct {
	body string
	err  error
}

func (f fakeTransport) Range(context.Context, string, hibp.Mode) ([]byte, error) {
	return []byte(f.body), f.err
}

func newEvaluator(t fakeTransport) *Evaluator {
	scorer, _ := strength.NewScorer(strength.DefaultWeights)
	return New(scorer, hibp.NewChecker(t, hibp.ModeSHA1))
}

func TestEvaluate_Found(t *testing.T) {
	v := newEvaluator(fakeTransport{body: passwordRange}).Evaluate(context.Background(), "password")

	assert.Equal(t, Found, v.Breach.Outcome)
	assert.Equal(t, uint64(9545824), v.Breach.Count)
	assert.NoError(t, v.Breach.Err)
	assert.Equal(t, strength.Weak, v.Strength.Label)
}

func TestEvaluate_NotFound(t *testing.T) {
	v := newEvaluator(fakeTransport{body: passwordRange}).Evaluate(context.Background(), "Xk9#mQ2$vL7!pR4&zT8w")

	assert.Equal(t, NotFound, v.Breach.Outcome)
	assert.Zero(t, v.Breach.Count)
	assert.Equal(t, strength.VeryStrong, v.Strength.Label)
}

func TestEvaluate_LookupErrorIsUnknown(t *testing.T) {
	refused := errors.New("dial tcp: connection refused")
	v := newEvaluator(fakeTransport{err: refused}).Evaluate(context.Background(), "password")

	assert.Equal(t, Unknown, v.Breach.Outcome)
	assert.Zero(t, v.Breach.Count)
	// the lookup error comes back from the group unchanged
	var le *hibp.LookupError
	require.ErrorAs(t, v.Breach.Err, &le)
	assert.Equal(t, "5BAA6", le.Prefix)
	assert.ErrorIs(t, v.Breach.Err, refused)
	// The strength report does not depend on the lookup.
	assert.Equal(t, strength.Score("password"), v.Strength)
}

func TestEvaluate_MalformedIsUnknown(t *testing.T) {
	v := newEvaluator(fakeTransport{body: "<html>oops</html>"}).Evaluate(context.Background(), "password")
	assert.Equal(t, Unknown, v.Breach.Outcome)
}

func TestCheckHash(t *testing.T) {
	e := newEvaluator(fakeTransport{body: passwordRange})

	status, err := e.CheckHash(context.Background(), "5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8")
	require.NoError(t, err)
	assert.Equal(t, BreachStatus{Outcome: Found, Count: 9545824}, status)

	_, err = e.CheckHash(context.Background(), "5baa6")
	assert.ErrorIs(t, err, hibp.ErrInvalidDigest)
}

func TestBreachStatus_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(BreachStatus{Outcome: Unknown, Err: errors.New("service down")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"unknown","count":0,"error":"service down"}`, string(out))

	out, err = json.Marshal(BreachStatus{Outcome: Found, Count: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"found","count":3}`, string(out))
}
