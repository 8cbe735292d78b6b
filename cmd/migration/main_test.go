package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"

	"github.com/riskibarqy/futgol/internal/platform/logging"
)

type fakeMigrator struct {
	calls   []string
	err     error
	version uint
	dirty   bool
	verErr  error
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	return f.err
}

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps:"+strconv.Itoa(n))
	return f.err
}

func (f *fakeMigrator) Migrate(v uint) error {
	f.calls = append(f.calls, "migrate:"+strconv.Itoa(int(v)))
	return f.err
}

func (f *fakeMigrator) Force(v int) error {
	f.calls = append(f.calls, "force:"+strconv.Itoa(v))
	return f.err
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, f.dirty, f.verErr
}

func TestParseSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{args: nil, want: 1},
		{args: []string{" 3 "}, want: 3},
		{args: []string{"0"}, wantErr: true},
		{args: []string{"two"}, wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseSteps(tc.args)
		if tc.wantErr {
			if !errors.Is(err, errUsage) {
				t.Fatalf("parseSteps(%v): expected usage error, got %v", tc.args, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("parseSteps(%v)=%d,%v want %d", tc.args, got, err, tc.want)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	t.Parallel()

	if v, err := parseVersion([]string{"1"}); err != nil || v != 1 {
		t.Fatalf("parseVersion: %d %v", v, err)
	}
	if v, err := parseVersion([]string{"-1"}); err != nil || v != -1 {
		t.Fatalf("parseVersion(-1): %d %v", v, err)
	}
	if _, err := parseVersion([]string{"-2"}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error for -2, got %v", err)
	}
	if _, err := parseVersion(nil); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error for missing version, got %v", err)
	}
	if v, err := parseTarget([]string{"2"}); err != nil || v != 2 {
		t.Fatalf("parseTarget: %d %v", v, err)
	}
	if _, err := parseTarget([]string{"-2"}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error for negative target, got %v", err)
	}
}

func TestCommands_DriveMigrator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "up", want: "up"},
		{name: "down", want: "steps:-1"},
		{name: "down", args: []string{"3"}, want: "steps:-3"},
		{name: "goto", args: []string{"7"}, want: "migrate:7"},
		{name: "force", args: []string{"4"}, want: "force:4"},
	}
	for _, tc := range tests {
		m := &fakeMigrator{}
		if err := commands[tc.name].run(m, logging.NewNop(), tc.args, &bytes.Buffer{}); err != nil {
			t.Fatalf("%s %v: %v", tc.name, tc.args, err)
		}
		if len(m.calls) != 1 || m.calls[0] != tc.want {
			t.Fatalf("%s %v: calls %v, want %s", tc.name, tc.args, m.calls, tc.want)
		}
	}
}

func TestCommands_NoChangeIsSuccess(t *testing.T) {
	t.Parallel()

	m := &fakeMigrator{err: migrate.ErrNoChange}
	if err := commands["up"].run(m, logging.NewNop(), nil, &bytes.Buffer{}); err != nil {
		t.Fatalf("expected no change to succeed, got %v", err)
	}

	boom := errors.New("boom")
	m = &fakeMigrator{err: boom}
	if err := commands["down"].run(m, logging.NewNop(), nil, &bytes.Buffer{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestCommands_Version(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	m := &fakeMigrator{version: 3, dirty: true}
	if err := commands["version"].run(m, logging.NewNop(), nil, &out); err != nil {
		t.Fatalf("version: %v", err)
	}
	if out.String() != "version: 3\ndirty: true\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	m = &fakeMigrator{verErr: migrate.ErrNilVersion}
	if err := commands["version"].run(m, logging.NewNop(), nil, &out); err != nil {
		t.Fatalf("version on empty db: %v", err)
	}
	if !strings.HasPrefix(out.String(), "version: none") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestCommandTableIsComplete(t *testing.T) {
	t.Parallel()

	if len(commandOrder) != len(commands) {
		t.Fatalf("commandOrder has %d entries, commands has %d", len(commandOrder), len(commands))
	}
	for _, name := range commandOrder {
		if _, ok := commands[name]; !ok {
			t.Fatalf("command %q listed but not defined", name)
		}
	}
}

func TestResolveMigrationsDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := resolveMigrationsDir(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want, _ := filepath.Abs(dir); got != want {
		t.Fatalf("got %s want %s", got, want)
	}

	missing := filepath.Join(dir, "nope")
	if _, err := resolveMigrationsDir(missing); err == nil {
		t.Fatalf("expected error for missing dir")
	}

	file := filepath.Join(dir, "f.sql")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := resolveMigrationsDir(file); err == nil {
		t.Fatalf("expected error for a file path")
	}
}
