package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/longkey1/thinkctx/internal/thinkctx"
	"github.com/longkey1/thinkctx/internal/thinkctx/config"
	"github.com/longkey1/thinkctx/internal/thinkctx/session"
)

func TestPrintRecords(t *testing.T) {
	records := []thinkctx.Record{
		{Role: thinkctx.RoleUser, Content: "Find a flight"},
		{Role: thinkctx.RoleAssistant, Content: "[call A]"},
	}

	var buf bytes.Buffer
	if err := printRecords(&buf, records, config.FormatJSON); err != nil {
		t.Fatalf("printRecords(json) error = %v", err)
	}
	var decoded []thinkctx.Record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 || decoded[1] != records[1] {
		t.Errorf("decoded = %+v, want %+v", decoded, records)
	}

	buf.Reset()
	if err := printRecords(&buf, records, config.FormatText); err != nil {
		t.Fatalf("printRecords(text) error = %v", err)
	}
	want := "[1] user:\nFind a flight\n\n[2] assistant:\n[call A]\n"
	if buf.String() != want {
		t.Errorf("text output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := printRecords(&buf, nil, config.FormatJSON); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty output = %q, want []", buf.String())
	}

	if err := printRecords(&buf, records, "xml"); err == nil {
		t.Error("printRecords(xml) error = nil, want error")
	}
}

func TestRoleLabel(t *testing.T) {
	tests := map[thinkctx.Role]string{
		thinkctx.RoleUser:      "User",
		thinkctx.RoleAssistant: "Assistant",
		thinkctx.RoleTool:      "Tool",
		thinkctx.RoleSystem:    "System",
		"developer":            "Developer",
		"":                     "Unknown",
	}
	for role, want := range tests {
		if got := roleLabel(role); got != want {
			t.Errorf("roleLabel(%q) = %q, want %q", role, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"2024-12", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), false},
		{"2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"15/03/2024", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionsCreatedBefore(t *testing.T) {
	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	sessions := []session.Session{
		{ID: "old", CreatedAt: cutoff.Add(-time.Hour)},
		{ID: "exact", CreatedAt: cutoff},
		{ID: "new", CreatedAt: cutoff.Add(time.Hour)},
	}

	got := sessionsCreatedBefore(sessions, cutoff)
	if len(got) != 1 || got[0].ID != "old" {
		t.Errorf("sessionsCreatedBefore() = %+v, want only old", got)
	}
}

func TestInteractiveSession(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "sessions"))
	sess := session.NewSession()

	var out, errOut bytes.Buffer
	r := &interactiveSession{
		sess:   sess,
		store:  store,
		m:      sess.Manager(),
		format: config.FormatJSON,
		out:    &out,
		errOut: &errOut,
	}

	input := strings.Join([]string{
		"Find a flight",
		"/assistant <think>T1</think> [call A]",
		"/tool Flight A: 500",
		"/info",
		"/assistant <think>T2</think> [call B]",
		"Also find a hotel",
		"/export",
		"/bogus",
		"/exit",
		"ignored after exit",
	}, "\n")

	if err := r.run(strings.NewReader(input)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var records []thinkctx.Record
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("export output is not JSON: %v\n%s", err, out.String())
	}
	want := []thinkctx.Record{
		{Role: thinkctx.RoleUser, Content: "Find a flight"},
		{Role: thinkctx.RoleAssistant, Content: "[call A]"},
		{Role: thinkctx.RoleTool, Content: "Flight A: 500"},
		{Role: thinkctx.RoleAssistant, Content: "[call B]"},
		{Role: thinkctx.RoleUser, Content: "Also find a hotel"},
	}
	if len(records) != len(want) {
		t.Fatalf("exported %d records, want %d", len(records), len(want))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("records[%d] = %+v, want %+v", i, records[i], want[i])
		}
	}

	if !strings.Contains(errOut.String(), "pruned reasoning from 2 assistant messages") {
		t.Errorf("stderr missing prune notice:\n%s", errOut.String())
	}
	if !strings.Contains(errOut.String(), "Unknown command: /bogus") {
		t.Errorf("stderr missing unknown command notice:\n%s", errOut.String())
	}

	saved, err := store.Load(sess.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if saved.MessageCount() != 5 || saved.LoopActive || saved.ReasoningCount() != 0 {
		t.Errorf("saved session = %d messages, loop %v, reasoning %d", saved.MessageCount(), saved.LoopActive, saved.ReasoningCount())
	}
}

func TestInteractiveSessionStrictRoles(t *testing.T) {
	sess := session.NewSession()
	var out, errOut bytes.Buffer
	r := &interactiveSession{
		sess:   sess,
		store:  session.NewStore(t.TempDir()),
		m:      sess.Manager(),
		strict: true,
		out:    &out,
		errOut: &errOut,
	}

	r.record(thinkctx.Role("observer"), "x")
	if r.m.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for rejected role", r.m.Len())
	}
	if !strings.Contains(errOut.String(), "unknown role") {
		t.Errorf("stderr = %q, want unknown role error", errOut.String())
	}
}

func TestStripCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader("<think>hidden\nreasoning</think>\n  visible answer  \n"))
	rootCmd.SetArgs([]string{"strip"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.String() != "visible answer\n" {
		t.Errorf("output = %q, want %q", out.String(), "visible answer\n")
	}
}
