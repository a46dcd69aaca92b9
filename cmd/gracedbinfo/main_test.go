package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gracedbinfo/app"
)

const samplesFile = `mchirp q distance
1.20 0.80 410.0
1.22 0.75 395.5
1.19 0.83 420.2
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GRACEDB_URL", "GRACEDB_TOKEN", "GRACEDB_USERNAME", "GRACEDB_PASSWORD",
		"X509_USER_CERT", "X509_USER_KEY", "GRACEDB_TIMEOUT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeSamples(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posterior_samples.dat")
	require.NoError(t, os.WriteFile(path, []byte(samplesFile), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_UsageErrors(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "does-not-exist.dat")

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"nothing", nil, app.MsgMissingEventID},
		{"no gid", []string{"-s", missing}, app.MsgMissingEventID},
		{"no samples", []string{"--gid", "G1"}, app.MsgMissingSamples},
		{"empty gid", []string{"-g", "", "--samples", missing}, app.MsgMissingEventID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Equal(t, tt.message+"\n", stderr)
		})
	}
}

func TestRun_DryRun(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "ERROR")
	jsonPath := filepath.Join(t.TempDir(), "summary.json")

	code, stdout, stderr := execute(t, "-g", "G298048", "-s", writeSamples(t), "--dry-run", "--json", jsonPath)
	require.Equal(t, 0, code, stderr)

	assert.True(t, strings.HasPrefix(stdout, "<table><tr><th colspan=2 align=center>LALInference PE summary</th></tr>"))
	assert.True(t, strings.HasSuffix(stdout, "</table>\n"))
	assert.FileExists(t, jsonPath)
}

func TestRun_PostsToService(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("GRACEDB_TOKEN", "secret")

	var calls atomic.Int32
	var comment, tag, auth atomic.Value
	r := chi.NewRouter()
	r.Post("/api/events/{gid}/log/", func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		comment.Store(req.FormValue("comment"))
		tag.Store(req.FormValue("tagname"))
		auth.Store(req.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"N": 3, "tag_names": ["pe"]}`))
	})
	server := httptest.NewServer(r)
	defer server.Close()

	code, stdout, stderr := execute(t, "-g", "G298048", "-s", writeSamples(t), "--analysis", "LIB", "--service-url", server.URL+"/api/")
	require.Equal(t, 0, code, stderr)

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, "pe", tag.Load())
	assert.Equal(t, "Bearer secret", auth.Load())
	assert.Equal(t, strings.TrimSuffix(stdout, "\n"), comment.Load())
	assert.Contains(t, stdout, "LIB PE summary")
}

func TestRun_RemoteFailure(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "ERROR")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "server error", http.StatusInternalServerError)
	}))
	defer server.Close()

	code, stdout, stderr := execute(t, "-g", "G298048", "-s", writeSamples(t), "--service-url", server.URL+"/api/")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "LALInference PE summary")
	assert.Contains(t, stderr, "Error:")
	assert.Contains(t, stderr, "500")
}

func TestRun_BadServiceURL(t *testing.T) {
	clearEnv(t)

	code, _, stderr := execute(t, "-g", "G1", "-s", writeSamples(t), "--service-url", "not a url")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "GRACEDB_URL must be an absolute URL")
}
