// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag back to its default, since cobra keeps parsed values in package variables.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

type fakeRangeAPI struct {
	mu       sync.Mutex
	requests []string
	url      string
}

func (f *fakeRangeAPI) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newRangeAPI(t *testing.T, status int, body string) *fakeRangeAPI {
	t.Helper()
	api := &fakeRangeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.requests = append(api.requests, r.URL.RequestURI())
		api.mu.Unlock()

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	api.url = srv.URL
	return api
}

func TestScoreCommand(t *testing.T) {
	out, err := executeCommand(t, "score", "password")
	require.NoError(t, err)

	assert.Contains(t, out, "Strength:  40/100 (Weak)")
	assert.Contains(t, out, "Estimate:  zxcvbn")
	assert.Contains(t, out, "Avoid using the word 'password'")
}

func TestScoreCommand_RequiresPassword(t *testing.T) {
	_, err := executeCommand(t, "score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 0")

	_, err = executeCommand(t, "score", "one", "two")
	assert.Error(t, err)
}

func TestCheckCommand_Found(t *testing.T) {
	api := newRangeAPI(t, http.StatusOK, passwordRange)

	out, err := executeCommand(t, "check", "--api-url", api.url, "password")
	require.NoError(t, err)

	assert.Contains(t, out, "Strength:  40/100 (Weak)")
	assert.Contains(t, out, "Breach:    FOUND in breach corpus 9,545,824 times")
	assert.Equal(t, []string{"/range/5BAA6"}, api.requested())
}

func TestCheckCommand_ServiceErrorFails(t *testing.T) {
	api := newRangeAPI(t, http.StatusServiceUnavailable, "")

	out, err := executeCommand(t, "check", "--api-url", api.url, "password")

	assert.ErrorIs(t, err, errBreachUnknown)
	assert.Contains(t, out, "could not determine (service error)")
	assert.NotContains(t, out, "not found in the breach corpus")
}

func TestCheckCommand_RequiresInput(t *testing.T) {
	_, err := executeCommand(t, "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 0")

	_, err = executeCommand(t, "check", "--in-file", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckCommand_Hashed(t *testing.T) {
	api := newRangeAPI(t, http.StatusOK, passwordRange)

	out, err := executeCommand(t, "check", "--hashed", "--api-url", api.url, "5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8")
	require.NoError(t, err)

	assert.Contains(t, out, "FOUND in breach corpus 9,545,824 times")
	assert.NotContains(t, out, "Strength")
	assert.Equal(t, []string{"/range/5BAA6"}, api.requested())
}

func TestCheckCommand_HashedNTLM(t *testing.T) {
	api := newRangeAPI(t, http.StatusOK, "7EAEE8FB117AD06BDD830B7586C:12\r\n")

	out, err := executeCommand(t, "check", "-s", "--mode", "ntlm", "--api-url", api.url, "8846F7EAEE8FB117AD06BDD830B7586C")
	require.NoError(t, err)

	assert.Contains(t, out, "FOUND in breach corpus 12 times")
	assert.Equal(t, []string{"/range/8846F?mode=ntlm"}, api.requested())
}

func TestCheckCommand_HashedAudit(t *testing.T) {
	api := newRangeAPI(t, http.StatusOK, passwordRange)

	fileName := filepath.Join(t.TempDir(), "hashes.txt")
	hashes := "5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8\nnot-a-hash\nDA39A3EE5E6B4B0D3255BFEF95601890AFD80709\n"
	require.NoError(t, os.WriteFile(fileName, []byte(hashes), 0o600))

	out, err := executeCommand(t, "check", "--hashed", "--in-file", fileName, "-t", "2", "--api-url", api.url)

	// an invalid line means the file was not fully checked
	assert.ErrorIs(t, err, errBreachUnknown)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "line 1: FOUND in breach corpus 9,545,824 times. Never use this password again.", lines[0])
	assert.Equal(t, "line 2: invalid hash: invalid digest: want 40 hex characters for sha1, got 10", lines[1])
	assert.Equal(t, "line 3: not found in the breach corpus", lines[2])
	assert.Equal(t, "3 hashes audited: 1 found, 1 not found, 0 unknown, 1 invalid", lines[4])
	assert.NotContains(t, out, "/100")

	// the digests themselves are looked up, never hashed again
	assert.ElementsMatch(t, []string{"/range/5BAA6", "/range/DA39A"}, api.requested())
}

func TestCheckCommand_RetriesAreClamped(t *testing.T) {
	api := newRangeAPI(t, http.StatusOK, passwordRange)

	cases := []struct {
		flag string
		want int
	}{
		{"0", 0},
		{"2", 2},
		{"10", maxRetries},
		{"-1", 0},
	}

	for _, tc := range cases {
		_, err := executeCommand(t, "check", "--retries="+tc.flag, "--api-url", api.url, "password")
		require.NoError(t, err, "--retries=%s", tc.flag)
		assert.Equal(t, tc.want, clientConfig().RetryMax, "--retries=%s", tc.flag)
	}
}
