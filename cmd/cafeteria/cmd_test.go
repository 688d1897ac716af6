package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cafeteria/portal-system/internal/pkg/config"
)

func newTestCLI(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.LoadFrom(context.Background(), map[string]string{
		"SQLITE_PATH": filepath.Join(t.TempDir(), "cafeteria.db"),
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	var out bytes.Buffer
	return &commandLine{cfg: cfg, log: zerolog.Nop(), out: &out}, &out
}

func stubPassword(t *testing.T, pwd string) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func TestRun_AddStudentThenAccounts(t *testing.T) {
	cli, out := newTestCLI(t)
	stubPassword(t, "secret")
	ctx := context.Background()

	if err := cli.run(ctx, []string{"cafeteria", "add-student", "-username", "ana", "-name", "Ana"}); err != nil {
		t.Fatalf("add-student: %v", err)
	}
	if !strings.Contains(out.String(), "student ana added") {
		t.Fatalf("unexpected output %q", out.String())
	}

	if err := cli.run(ctx, []string{"cafeteria", "add-student", "-username", "ana"}); err == nil {
		t.Fatalf("a duplicate username must fail")
	}

	out.Reset()
	if err := cli.run(ctx, []string{"cafeteria", "accounts"}); err != nil {
		t.Fatalf("accounts: %v", err)
	}
	for _, want := range []string{"student", "admin", "notification_manager"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("accounts output missing %q: %q", want, out.String())
		}
	}
}

func TestRun_Usage(t *testing.T) {
	cli, out := newTestCLI(t)
	ctx := context.Background()

	if err := cli.run(ctx, []string{"cafeteria", "bogus"}); !errors.Is(err, errHelp) {
		t.Fatalf("expected errHelp, got %v", err)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("usage not printed: %q", out.String())
	}
	if err := cli.run(ctx, []string{"cafeteria", "add-student"}); !errors.Is(err, errHelp) {
		t.Fatalf("missing username must print usage, got %v", err)
	}

	stubPassword(t, "")
	if err := cli.run(ctx, []string{"cafeteria", "add-student", "-username", "ana"}); !errors.Is(err, errHelp) {
		t.Fatalf("empty password must print usage, got %v", err)
	}
}
