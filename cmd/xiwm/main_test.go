package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xi/xiwm/internal/config"
	"github.com/xi/xiwm/internal/ipc"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", "desktops: 4\n", ""},
		{"bad desktop", "desktops: 2\ninitial_desktop: 5\n", "initial_desktop"},
		{"unknown field", "gap_size: 4\n", "gap_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, "--config", writeConfig(t, tt.body), "config", "validate")
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !strings.Contains(out, "config: ok") {
					t.Fatalf("expected ok output, got %q", out)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigExplain(t *testing.T) {
	path := writeConfig(t, "log_level: debug\ndesktops: 5\n")
	out, err := runCLI(t, "--config", path, "config", "explain", "desktops")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "source: file:"+path+":2:") {
		t.Fatalf("expected file source at line 2, got:\n%s", out)
	}
	if !strings.Contains(out, "value:\n5") {
		t.Fatalf("expected value 5, got:\n%s", out)
	}
}

func TestConfigPrintDefaults(t *testing.T) {
	out, err := runCLI(t, "config", "print", "--defaults")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"desktops: 3", "split_factor: 0.5", "Thunderbird"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in defaults:\n%s", want, out)
		}
	}
}

func TestCtlExecArgs(t *testing.T) {
	if _, err := runCLI(t, "ctl", "exec"); err == nil {
		t.Fatalf("expected error for missing action")
	}
	if _, err := runCLI(t, "ctl", "exec", "view", "1", "2"); err == nil {
		t.Fatalf("expected error for extra arguments")
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/a.yaml", Line: 3, Column: 5}, "file:/a.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/a.yaml"}, "file:/a.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceDefault, Name: "desktops"}, "default:desktops"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestPrintClients(t *testing.T) {
	var buf bytes.Buffer
	printClients(&buf, []ipc.ClientInfo{
		{Window: 0x400001, Desktop: 1, Layout: "left", Class: "XTerm", Instance: "xterm", Width: 100, Height: 50, Focused: true},
		{Window: 0x500001, Class: "Polybar", Dock: true},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "0x400001") || !strings.Contains(lines[1], "*") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "dock") {
		t.Fatalf("expected dock layout in %q", lines[2])
	}
}
