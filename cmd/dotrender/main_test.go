package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recera/dotrender/cmd/dotrender/internal/config"
)

const chain = `digraph { a -> b -> c -> d }`

func TestRunRender(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Width = 50
	cfg.Height = 50

	var stdout, stderr bytes.Buffer
	err := runRender(context.Background(), cfg, "-", renderOptions{}, strings.NewReader(chain), &stdout, &stderr)
	if err != nil {
		t.Fatalf("runRender: %v\n%s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "<svg") {
		t.Errorf("expected bare svg output, got %.60q", out)
	}
	if !strings.Contains(stderr.String(), "fitted to") {
		t.Errorf("missing summary: %q", stderr.String())
	}
}

func TestRunRender_HostAndOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "graph.dot")
	out := filepath.Join(dir, "graph.svg")
	if err := os.WriteFile(in, []byte(chain), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	opts := renderOptions{output: out, host: true, quiet: true}

	var stdout, stderr bytes.Buffer
	if err := runRender(context.Background(), cfg, in, opts, nil, &stdout, &stderr); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("expected no terminal output, got %q / %q", stdout.String(), stderr.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<dot-render><svg") {
		t.Errorf("expected host element, got %.60q", data)
	}
}

func TestRunRender_Failure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := runRender(context.Background(), config.DefaultConfig(), "-", renderOptions{}, strings.NewReader("   "), &stdout, &stderr)
	if err == nil {
		t.Fatal("expected an error for an empty description")
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should be written on failure, got %q", stdout.String())
	}
}

func TestRunRender_MissingFile(t *testing.T) {
	err := runRender(context.Background(), config.DefaultConfig(), filepath.Join(t.TempDir(), "nope.dot"), renderOptions{quiet: true}, nil, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestRouter(t *testing.T) {
	cfg := config.DefaultConfig()
	live := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := httptest.NewServer(newRouter(live, "graph.dot", cfg))
	defer srv.Close()

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{path: "/", status: http.StatusOK, contains: "<title>graph.dot · dotrender</title>"},
		{path: "/", status: http.StatusOK, contains: "width: 800px"},
		{path: "/healthz", status: http.StatusOK, contains: `"ok":true`},
		{path: "/live", status: http.StatusTeapot},
		{path: "/missing", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body, _ := io.ReadAll(resp.Body)
			if tt.contains != "" && !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "dotrender "+version) {
		t.Errorf("unexpected output %q", out.String())
	}
}
