package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/IA-Ben/ode-islands-transcoder/internal/client"
	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCapabilities(t *testing.T) {
	dir := t.TempDir()
	oldAndroid := "Mozilla/5.0 (Linux; U; Android 4.1.2; en-us) AppleWebKit/534.30 (KHTML, like Gecko) Version/4.0 Mobile Safari/534.30"

	out, err := execute(t, "capabilities", "--dir", dir, "--user-agent", oldAndroid)
	require.NoError(t, err)

	var got struct {
		Ceiling  string   `json:"ceiling"`
		Playlist []string `json:"playlist"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "360p", got.Ceiling)
	assert.Equal(t, []string{"360p"}, got.Playlist)

	// without a user agent the stored snapshot is reused
	out, err = execute(t, "capabilities", "--dir", dir)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "360p", got.Ceiling)

	out, err = execute(t, "capabilities", "--dir", dir, "--refresh")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, domain.CeilingAuto, got.Ceiling)
	assert.Len(t, got.Playlist, 4)
}

func TestStatus(t *testing.T) {
	var batchCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/videos/status/batch":
			batchCalls++
			_, _ = io.WriteString(w, `{"a":{"videoId":"a","status":"completed"},"b":{"videoId":"b","status":"queued"}}`)
		case strings.HasSuffix(r.URL.Path, "/status"):
			_, _ = io.WriteString(w, `{"status":"processing","percentage":25}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := execute(t, "--server", srv.URL, "status", "intro")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "processing"`)
	assert.Contains(t, out, `"videoId": "intro"`)

	out, err = execute(t, "--server", srv.URL, "status", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, batchCalls)
	assert.Contains(t, out, `"queued"`)
}

func TestHealth_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"status":"degraded","error":"redis down"}`)
	}))
	defer srv.Close()

	_, err := execute(t, "--server", srv.URL, "health")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "redis down", apiErr.Message)
}

func TestUpload_RejectsBeforeNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	path := t.TempDir() + "/notes.txt"
	require.NoError(t, writeFile(path, "not a video"))

	_, err := execute(t, "--server", srv.URL, "upload", path)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, called)
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	show := progressPrinter(&buf)
	pct := func(n int) *domain.StatusReport { return &domain.StatusReport{Percentage: &n} }

	show(client.Progress{State: client.StateUploading, VideoID: ""})
	show(client.Progress{State: client.StateProcessing, VideoID: "v"})
	show(client.Progress{State: client.StateProcessing, VideoID: "v", Report: pct(50)})
	show(client.Progress{State: client.StateProcessing, VideoID: "v", Report: pct(50)})
	show(client.Progress{State: client.StateCompleted, VideoID: "v"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[2], " 50%")
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
