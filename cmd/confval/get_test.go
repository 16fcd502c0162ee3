// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/confval/confval/internal/config"
	"github.com/confval/confval/internal/issue"
	"github.com/confval/confval/pkg/codec"
	"github.com/confval/confval/pkg/confval"
	"github.com/confval/confval/pkg/keyed"
)

func TestRunGet_ScalarFromStdin(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(`{"server": {"port": 8080}}`)
	opts := getOptions{file: stdinName, indent: -1}
	if err := runGet(newTestCommand(t), app, opts, "server.port"); err != nil {
		t.Fatalf("runGet() error: %v", err)
	}
	if got := stdout.String(); got != "8080\n" {
		t.Errorf("stdout = %q, want %q", got, "8080\n")
	}
}

func TestRunGet_WholeDocument(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(`{"a": 1, "b": [true, null]}`)
	opts := getOptions{file: stdinName, indent: -1}
	if err := runGet(newTestCommand(t), app, opts, "."); err != nil {
		t.Fatalf("runGet() error: %v", err)
	}

	doc, err := codec.Decode(stdout.Bytes(), codec.FormatJSON)
	if err != nil {
		t.Fatalf("stdout does not parse: %v", err)
	}
	want := confval.Dict(map[string]confval.Value{
		"a": confval.Int(1),
		"b": confval.Array(confval.Bool(true), confval.Null()),
	})
	if !doc.Equal(want) {
		t.Errorf("document = %v, want %v", doc, want)
	}
}

func TestRunGet_OutputFormat(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(`{"server": {"port": 8080}}`)
	opts := getOptions{file: stdinName, output: "yaml", indent: -1}
	if err := runGet(newTestCommand(t), app, opts, "server"); err != nil {
		t.Fatalf("runGet() error: %v", err)
	}
	if got := stdout.String(); got != "port: 8080\n" {
		t.Errorf("stdout = %q, want %q", got, "port: 8080\n")
	}
}

func TestRunGet_RawString(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(`{"name": "hello world"}`)
	opts := getOptions{file: stdinName, output: outputRaw, indent: -1}
	if err := runGet(newTestCommand(t), app, opts, "name"); err != nil {
		t.Fatalf("runGet() error: %v", err)
	}
	if got := stdout.String(); got != "hello world\n" {
		t.Errorf("stdout = %q, want %q", got, "hello world\n")
	}
}

func TestRunGet_AbsentPathExitsOne(t *testing.T) {
	t.Parallel()

	app, stdout, stderr := newTestApp(`{"a": 1}`)
	opts := getOptions{file: stdinName, indent: -1}
	cmd := newTestCommand(t)
	err := runGet(cmd, app, opts, "missing")
	if err == nil {
		t.Fatal("expected error for absent path")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T: %v", err, err)
	}
	if exitErr.Code != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
	if !errors.Is(err, errNoValue) {
		t.Errorf("error should wrap errNoValue, got %v", err)
	}
	if !strings.Contains(stderr.String(), "no value") {
		t.Errorf("stderr = %q, want absence message", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
	if !cmd.SilenceErrors {
		t.Error("SilenceErrors should be set so the message is not printed twice")
	}
}

func TestRunGet_FileWithDetectedFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	app, stdout, _ := newTestApp("")
	opts := getOptions{file: path, indent: -1}
	if err := runGet(newTestCommand(t), app, opts, "server.port"); err != nil {
		t.Fatalf("runGet() error: %v", err)
	}
	if got := stdout.String(); got != "8080\n" {
		t.Errorf("stdout = %q, want %q", got, "8080\n")
	}
}

func TestRunGet_FormatOverridesExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "app.txt")
	if err := os.WriteFile(path, []byte(`{"a": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	app, stdout, _ := newTestApp("")
	opts := getOptions{file: path, format: "json", indent: -1}
	if err := runGet(newTestCommand(t), app, opts, "a"); err != nil {
		t.Fatalf("runGet() error: %v", err)
	}
	if got := stdout.String(); got != "1\n" {
		t.Errorf("stdout = %q, want %q", got, "1\n")
	}
}

func TestRunGet_InvalidPath(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(`{}`)
	opts := getOptions{file: stdinName, indent: -1}
	err := runGet(newTestCommand(t), app, opts, "a[x]")
	if !errors.Is(err, keyed.ErrInvalidPath) {
		t.Errorf("error = %v, want ErrInvalidPath", err)
	}
}

func TestRunGet_UnknownOutputFormat(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(`{"a": 1}`)
	opts := getOptions{file: stdinName, output: "xml", indent: -1}
	err := runGet(newTestCommand(t), app, opts, "a")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %T: %v", err, err)
	}
	if svcErr.IssueID != issue.UnknownFormatId {
		t.Errorf("IssueID = %d, want UnknownFormatId", svcErr.IssueID)
	}
}

func TestRunGetWatch_RequiresFile(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(`{}`)
	err := runGetWatch(context.Background(), app, config.DefaultConfig().Watch, stdinName, nil)
	if err == nil || !strings.Contains(err.Error(), "-f") {
		t.Errorf("error = %v, want a hint about -f", err)
	}
}

// syncBuffer is a goroutine-safe buffer for watch tests, where the watcher
// writes output while the test polls it.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestRunGet_WatchRerendersOnChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	if err := os.WriteFile(path, []byte(`{"port": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Watch.Debounce = 50
	stdout := &syncBuffer{}
	stderr := &syncBuffer{}
	app := NewApp(Dependencies{
		Config: &staticConfigProvider{cfg: cfg},
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runGet(cmd, app, getOptions{file: path, watch: true, indent: -1}, "port")
	}()

	waitForOutput(t, stdout, "1\n")

	if err := os.WriteFile(path, []byte(`{"port": 2}`), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForOutput(t, stdout, "2\n")

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("runGet() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runGet did not stop after cancellation")
	}
}

// waitForOutput polls the buffer until the wanted substring appears.
func waitForOutput(t *testing.T, buf *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output %q never appeared; buffer: %q", want, buf.String())
}
