package app

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RedstoneDaedalus/snekfetch"
	"github.com/RedstoneDaedalus/snekfetch/config"
	"github.com/RedstoneDaedalus/snekfetch/input"
	"github.com/RedstoneDaedalus/snekfetch/version"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"snek","langs":["go"]}`))
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", r.Header.Get("Content-Type"))
		w.Header().Set("X-Seen-Team", r.Header.Get("X-Team"))
		w.Header().Set("X-Seen-Agent", r.Header.Get("User-Agent"))
		_, _ = w.Write(body)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	mux.HandleFunc("/file", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// isolateConfig keeps the user's own config file out of the test.
func isolateConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	isolateConfig(t)
	var stdout, stderr bytes.Buffer
	err := Run(Env{
		Args:   append([]string{"snek", "--ignore-stdin"}, args...),
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	return stdout.String(), stderr.String(), err
}

func TestRun_PrintsFormattedJSON(t *testing.T) {
	server := newTestServer(t)

	stdout, _, err := run(t, "--print=b", "--pretty=format", server.URL+"/json")

	require.NoError(t, err)
	expected := strings.Join([]string{
		`{`,
		`    "name": "snek",`,
		`    "langs": [`,
		`        "go"`,
		`    ]`,
		"}\n",
	}, "\n")
	assert.Equal(t, expected, stdout)
}

func TestRun_PrintsResponseHeader(t *testing.T) {
	server := newTestServer(t)

	stdout, _, err := run(t, "--print=hb", "--pretty=none", server.URL+"/json")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "HTTP/1.1 200 OK\n"), stdout)
	assert.Contains(t, stdout, "Content-Type: application/json\n")
	assert.True(t, strings.HasSuffix(stdout, `{"name":"snek","langs":["go"]}`), stdout)
}

func TestRun_PrintsRequest(t *testing.T) {
	server := newTestServer(t)

	stdout, _, err := run(t, "--print=HB", "--pretty=none", server.URL+"/echo", "name=snek")

	require.NoError(t, err)
	assert.Contains(t, stdout, "POST "+server.URL+"/echo HTTP/1.1\n")
	assert.Contains(t, stdout, "User-Agent: "+version.UserAgent()+"\n")
	assert.Contains(t, stdout, "Content-Type: application/json\n")
	assert.Contains(t, stdout, `{"name":"snek"}`)
}

func TestRun_HTTPErrorStillPrints(t *testing.T) {
	server := newTestServer(t)

	stdout, _, err := run(t, "--print=b", "--pretty=none", server.URL+"/missing")

	var httpErr *snekfetch.HTTPError
	require.True(t, errors.As(err, &httpErr), "err=%v", err)
	assert.Equal(t, 404, httpErr.Status)
	assert.Equal(t, 4, ExitCode(err))
	assert.Equal(t, `{"error":"nope"}`, stdout)
}

func TestRun_Select(t *testing.T) {
	server := newTestServer(t)

	stdout, _, err := run(t, "--print=b", "--select", "langs.0", server.URL+"/json")

	require.NoError(t, err)
	assert.Equal(t, "go\n", stdout)
}

func TestRun_TooManyRedirects(t *testing.T) {
	server := newTestServer(t)

	_, _, err := run(t, "--max-redirects=2", server.URL+"/loop")

	assert.Equal(t, snekfetch.ErrTooManyRedirects, errors.Cause(err))
	assert.Equal(t, 1, ExitCode(err))
}

func TestRun_Download(t *testing.T) {
	server := newTestServer(t)
	target := filepath.Join(t.TempDir(), "digits.txt")

	stdout, stderr, err := run(t, "--print=b", "--output", target, server.URL+"/file")

	require.NoError(t, err)
	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(b))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Downloaded 10B")
}

func TestRun_Stream(t *testing.T) {
	server := newTestServer(t)

	stdout, _, err := run(t, "--stream", server.URL+"/file")

	require.NoError(t, err)
	assert.Equal(t, "0123456789", stdout)
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := run(t, "--version")

	require.NoError(t, err)
	assert.Equal(t, "snek "+version.Current().String()+"\n", stdout)
}

func TestRun_ConfigFile(t *testing.T) {
	server := newTestServer(t)
	path := filepath.Join(t.TempDir(), "snek.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_headers:\n  X-Team: snek\nuser_agent: snek-test\n"), 0o600))

	stdout, _, err := run(t, "--print=h", "--pretty=none", "--config", path, server.URL+"/echo")

	require.NoError(t, err)
	assert.Contains(t, stdout, "X-Seen-Team: snek\n")
	assert.Contains(t, stdout, "X-Seen-Agent: snek-test\n")
}

func TestRun_VerboseLogs(t *testing.T) {
	server := newTestServer(t)

	_, stderr, err := run(t, "--print=b", "-v", server.URL+"/json")

	require.NoError(t, err)
	assert.Contains(t, stderr, "dispatching request")
}

func TestRun_UsageError(t *testing.T) {
	_, stderr, err := run(t)

	_, ok := errors.Cause(err).(*input.UsageError)
	assert.True(t, ok, "err=%v", err)
	assert.Contains(t, stderr, "Usage")
}

func TestExitCode(t *testing.T) {
	testCases := []struct {
		title    string
		err      error
		expected int
	}{
		{title: "Redirect", err: &snekfetch.HTTPError{Response: &snekfetch.Response{Status: 302}}, expected: 3},
		{title: "Client error", err: &snekfetch.HTTPError{Response: &snekfetch.Response{Status: 418}}, expected: 4},
		{title: "Server error", err: &snekfetch.HTTPError{Response: &snekfetch.Response{Status: 503}}, expected: 5},
		{title: "Wrapped", err: errors.Wrap(&snekfetch.HTTPError{Response: &snekfetch.Response{Status: 500}}, "sending"), expected: 5},
		{title: "Other", err: errors.New("boom"), expected: 1},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCode(tt.err))
		})
	}
}
