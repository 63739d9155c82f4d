package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewHTTPLogger_DisabledWhenPathEmpty(t *testing.T) {
	hl, err := NewHTTPLogger("")
	if err != nil {
		t.Fatalf("NewHTTPLogger(\"\") returned error: %v", err)
	}
	if hl == nil {
		t.Fatal("NewHTTPLogger(\"\") returned nil")
	}

	// Must not panic and must not create a file.
	hl.LogRequest("127.0.0.1", "GET", "/health", 200, 5*time.Millisecond, "curl/8.0", "req-1")
}

func TestHTTPLogger_WritesOneLinePerRequest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "access.log")

	hl, err := NewHTTPLogger(path)
	if err != nil {
		t.Fatalf("NewHTTPLogger(%q) returned error: %v", path, err)
	}
	defer hl.Close()

	hl.LogRequest("10.0.0.1", "GET", "/campaigns", 200, 12*time.Millisecond, "go-test", "req-1")
	hl.LogRequest("10.0.0.2", "POST", "/campaigns/abc/start", 204, 30*time.Millisecond, "go-test", "req-2")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read access log: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), string(data))
	}
	if !strings.Contains(lines[0], "req-1") || !strings.Contains(lines[0], "/campaigns") {
		t.Errorf("line 0 missing expected fields: %q", lines[0])
	}
	if !strings.Contains(lines[1], "req-2") || !strings.Contains(lines[1], "204") {
		t.Errorf("line 1 missing expected fields: %q", lines[1])
	}
}

func TestHTTPLogger_AppendsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "access.log")

	first, err := NewHTTPLogger(path)
	if err != nil {
		t.Fatalf("NewHTTPLogger(%q) returned error: %v", path, err)
	}
	first.LogRequest("10.0.0.1", "GET", "/a", 200, time.Millisecond, "go-test", "req-1")
	first.Close()

	second, err := NewHTTPLogger(path)
	if err != nil {
		t.Fatalf("NewHTTPLogger(%q) returned error: %v", path, err)
	}
	defer second.Close()
	second.LogRequest("10.0.0.1", "GET", "/b", 200, time.Millisecond, "go-test", "req-2")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read access log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), string(data))
	}
}

func TestHTTPLogger_NilReceiverIsNoOp(t *testing.T) {
	var hl *HTTPLogger
	hl.LogRequest("127.0.0.1", "GET", "/health", 200, time.Millisecond, "curl/8.0", "req-1")
}
