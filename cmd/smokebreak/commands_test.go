package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/settings"
)

// writeConfig writes a fast-session smokebreak.toml into a temp dir and
// returns its path.
func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`
[session]
duration_ms = 100
tick_ms = 10

[storage]
dir = "data"
backend = %q
`, backend)
	path := filepath.Join(dir, "smokebreak.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the CLI with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := rootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := rootCmd()
	want := []string{"session", "history", "settings", "remind", "catalog", "journal", "init"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, path := range [][]string{
		{"history", "list"}, {"history", "total"}, {"history", "clear"},
		{"settings", "show"}, {"settings", "set"},
		{"remind", "check"}, {"remind", "watch"},
		{"journal", "show"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd.Name() != path[1] {
			t.Errorf("subcommand %v not registered", path)
		}
	}
}

func TestApplySettingsFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(settings.Config) bool
		wantErr bool
	}{
		{
			name: "no flags leaves config unchanged",
			args: nil,
			want: func(c settings.Config) bool { return c == settings.Defaults() },
		},
		{
			name: "window and interval",
			args: []string{"--start", "08:30", "--end", "20:00", "--interval", "90"},
			want: func(c settings.Config) bool {
				return c.ActiveStart.String() == "08:30" && c.ActiveEnd.String() == "20:00" && c.IntervalMinutes == 90
			},
		},
		{
			name: "enable notifications",
			args: []string{"--notifications"},
			want: func(c settings.Config) bool { return c.NotificationsEnabled },
		},
		{
			name:    "malformed time",
			args:    []string{"--start", "8am"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := settingsSetCmd()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			got, err := applySettingsFlags(cmd, settings.Defaults())
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !tt.want(got) {
				t.Errorf("unexpected config %+v", got)
			}
		})
	}
}

func TestCatalogCmd(t *testing.T) {
	out, err := run(t, "catalog")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Classic Red") {
		t.Errorf("catalog output missing items:\n%s", out)
	}
}

func TestHistoryClear_RequiresYes(t *testing.T) {
	cfg := writeConfig(t, "json")
	if _, err := run(t, "history", "clear", "--config", cfg); err == nil {
		t.Error("clear without --yes should fail")
	}
}

func TestSessionHeadless_EndToEnd(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := writeConfig(t, backend)

			out, err := run(t, "session", "--no-tui", "--item", "cigar", "--config", cfg)
			if err != nil {
				t.Fatalf("session: %v", err)
			}
			for _, want := range []string{"session_start", "session_complete", "Saved $12.00 this time, $12.00 in total."} {
				if !strings.Contains(out, want) {
					t.Errorf("session output missing %q:\n%s", want, out)
				}
			}

			// A second process sees the persisted record.
			out, err = run(t, "history", "total", "--config", cfg)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "$12.00 saved over 1 sessions") {
				t.Errorf("history total = %q", out)
			}

			out, err = run(t, "history", "list", "--config", cfg)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "Havana Cigar") {
				t.Errorf("history list missing record:\n%s", out)
			}

			out, err = run(t, "journal", "show", "--config", cfg)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "session_complete") {
				t.Errorf("journal show missing completion:\n%s", out)
			}

			out, err = run(t, "history", "clear", "--yes", "--config", cfg)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "Cleared 1 sessions.") {
				t.Errorf("history clear = %q", out)
			}
			out, _ = run(t, "history", "total", "--config", cfg)
			if !strings.Contains(out, "$0.00 saved over 0 sessions") {
				t.Errorf("history total after clear = %q", out)
			}
		})
	}
}

func TestSessionHeadless_UnknownItem(t *testing.T) {
	cfg := writeConfig(t, "json")
	if _, err := run(t, "session", "--no-tui", "--item", "pipe", "--config", cfg); err == nil {
		t.Error("unknown item should fail")
	}
}

func TestSettingsSet_PersistsAndValidates(t *testing.T) {
	cfg := writeConfig(t, "json")

	out, err := run(t, "settings", "set", "--interval", "45", "--notifications", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "not permitted") {
		t.Errorf("enabling without a notifications.url should warn:\n%s", out)
	}

	out, err = run(t, "settings", "show", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "45 minutes") || !strings.Contains(out, "on\n") {
		t.Errorf("settings not persisted:\n%s", out)
	}

	if _, err := run(t, "settings", "set", "--interval", "50", "--config", cfg); err == nil {
		t.Error("interval 50 should be rejected")
	}
	out, _ = run(t, "settings", "show", "--config", cfg)
	if !strings.Contains(out, "45 minutes") {
		t.Errorf("rejected update must not change stored settings:\n%s", out)
	}
}

func TestRemindCheck_EmptyLedger(t *testing.T) {
	cfg := writeConfig(t, "json")
	out, err := run(t, "remind", "check", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No sessions recorded yet") {
		t.Errorf("remind check = %q", out)
	}
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(origDir) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "init")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "smokebreak.toml") {
		t.Errorf("init output = %q", out)
	}
	if _, err := run(t, "init"); err == nil {
		t.Error("second init should refuse to overwrite")
	}
}
