package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LOG_DIR", t.TempDir())
	t.Setenv("STATUS_ADDR", "")
}

func TestRun_Version(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"-v"}, &out, &errOut); code != 0 {
		t.Fatalf("want exit 0, got %d", code)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Fatalf("want version %q, got %q", version, out.String())
	}
}

func TestRun_Help(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"-h"}, &out, &errOut); code != 0 {
		t.Fatalf("want exit 0, got %d", code)
	}
	if !strings.Contains(errOut.String(), "Usage: sitecheck") {
		t.Fatalf("usage not printed: %q", errOut.String())
	}
}

func TestRun_NothingToCheck(t *testing.T) {
	testEnv(t)
	var out, errOut bytes.Buffer
	if code := run(context.Background(), nil, &out, &errOut); code != 0 {
		t.Fatalf("want exit 0, got %d (%s)", code, errOut.String())
	}
	if !strings.Contains(out.String(), "Nothing to check...") {
		t.Fatalf("want nothing-to-check message, got %q", out.String())
	}
}

func TestRun_NothingToCheckLeavesNoLogDir(t *testing.T) {
	testEnv(t)
	logDir := filepath.Join(t.TempDir(), "logs")
	t.Setenv("LOG_DIR", logDir)

	var out, errOut bytes.Buffer
	if code := run(context.Background(), nil, &out, &errOut); code != 0 {
		t.Fatalf("want exit 0, got %d (%s)", code, errOut.String())
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Fatalf("log dir created for an empty run: %v", err)
	}
}

func TestRun_ConfigErrorsExitNonZero(t *testing.T) {
	testEnv(t)
	bad := filepath.Join(t.TempDir(), "bad.ini")
	if err := os.WriteFile(bad, []byte("[settings]\ninterval = never\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, args := range [][]string{
		{"-c", bad},
		{"-c", filepath.Join(t.TempDir(), "missing.ini")},
		{"-u", "http://example.com", "-i", "zero"},
	} {
		var out, errOut bytes.Buffer
		if code := run(context.Background(), args, &out, &errOut); code != 1 {
			t.Fatalf("%v: want exit 1, got %d", args, code)
		}
		if errOut.Len() == 0 {
			t.Fatalf("%v: want an error message", args)
		}
	}
}

func TestRun_SweepsUntilSignalled(t *testing.T) {
	testEnv(t)
	hits := make(chan struct{}, 16)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case hits <- struct{}{}:
		default:
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var out, errOut bytes.Buffer
	done := make(chan int, 1)
	go func() { done <- run(ctx, []string{"-u", ts.URL, "-i", "1"}, &out, &errOut) }()

	select {
	case <-hits:
	case <-time.After(5 * time.Second):
		t.Fatal("target was never probed")
	}
	cancel()

	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("want exit 0 on signal, got %d (%s)", code, errOut.String())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
