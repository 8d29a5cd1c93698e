package assistant

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("assistant", flag.ContinueOnError)
	cfg, args, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DataDir != "campaigns" {
		t.Fatalf("expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.Readers != 4 {
		t.Fatalf("expected default readers 4, got %d", cfg.Readers)
	}
	if len(args) != 0 {
		t.Fatalf("expected no operands, got %v", args)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("assistant", flag.ContinueOnError)
	cfg, args, err := ParseConfig(fs, []string{"-data-dir", "/tmp/c", "-readers", "2", "list"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DataDir != "/tmp/c" {
		t.Fatalf("expected data dir override, got %q", cfg.DataDir)
	}
	if cfg.Readers != 2 {
		t.Fatalf("expected readers 2, got %d", cfg.Readers)
	}
	if len(args) != 1 || args[0] != "list" {
		t.Fatalf("expected [list] operands, got %v", args)
	}
}

func TestParseConfigFromEnv(t *testing.T) {
	t.Setenv("CAMPAIGNSTORE_DATA_DIR", "/srv/campaigns")
	fs := flag.NewFlagSet("assistant", flag.ContinueOnError)
	cfg, _, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DataDir != "/srv/campaigns" {
		t.Fatalf("expected env data dir, got %q", cfg.DataDir)
	}
}

func run(t *testing.T, cfg Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Run(context.Background(), cfg, args, &out)
	return out.String(), err
}

func TestCommandLifecycle(t *testing.T) {
	cfg := Config{DataDir: t.TempDir()}

	out, err := run(t, cfg, "create", "Twilight Imperium")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(out, "created Twilight Imperium (") {
		t.Fatalf("create output %q", out)
	}

	out, err = run(t, cfg, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out != "Twilight Imperium\n" {
		t.Fatalf("list output %q", out)
	}

	out, err = run(t, cfg, "turn", "Twilight Imperium")
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if out != "turn 0\n" {
		t.Fatalf("turn output %q", out)
	}

	out, err = run(t, cfg, "advance", "Twilight Imperium")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if out != "advanced to turn 1\n" {
		t.Fatalf("advance output %q", out)
	}

	out, err = run(t, cfg, "delete", "Twilight Imperium")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if out != "deleted Twilight Imperium\n" {
		t.Fatalf("delete output %q", out)
	}

	out, err = run(t, cfg, "list")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty list, got %q", out)
	}
}

func TestImportSystemsCommand(t *testing.T) {
	cfg := Config{DataDir: t.TempDir()}

	if _, err := run(t, cfg, "create", "alpha"); err != nil {
		t.Fatalf("create: %v", err)
	}

	csvPath := filepath.Join(t.TempDir(), "systems.csv")
	csv := "name,ptype,raw,cap,pop,mor,ind\nSol,Terran,10,8,7,6,5\nVega,Ocean,6,5,3,4,2\n"
	if err := os.WriteFile(csvPath, []byte(csv), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out, err := run(t, cfg, "import-systems", "alpha", csvPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if out != "imported 2 systems\n" {
		t.Fatalf("import output %q", out)
	}

	out, err = run(t, cfg, "stats", "alpha")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "systems") || !strings.Contains(out, "2") {
		t.Fatalf("stats output %q", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	cfg := Config{DataDir: t.TempDir()}
	if _, err := run(t, cfg, "frobnicate"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestMissingSubcommand(t *testing.T) {
	cfg := Config{DataDir: t.TempDir()}
	if _, err := run(t, cfg); err == nil {
		t.Fatal("expected usage error")
	}
}
