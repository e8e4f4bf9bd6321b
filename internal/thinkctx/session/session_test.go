package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/longkey1/thinkctx/internal/thinkctx"
)

func TestNewSession(t *testing.T) {
	s := NewSession()
	if len(s.ID) != 36 {
		t.Errorf("ID = %q, want a UUID", s.ID)
	}
	if s.MessageCount() != 0 {
		t.Errorf("MessageCount() = %d, want 0", s.MessageCount())
	}
	if s.GetShortID() != s.ID[:8] {
		t.Errorf("GetShortID() = %q, want %q", s.GetShortID(), s.ID[:8])
	}
	if s.GetDisplayName() != s.GetShortID() {
		t.Errorf("GetDisplayName() = %q, want short ID", s.GetDisplayName())
	}
	s.Name = "flights"
	if s.GetDisplayName() != "flights" {
		t.Errorf("GetDisplayName() = %q, want %q", s.GetDisplayName(), "flights")
	}
}

func TestCaptureAndRestore(t *testing.T) {
	m := thinkctx.New()
	m.Append(thinkctx.RoleUser, "Find a flight", false)
	m.Append(thinkctx.RoleAssistant, "<think>T1</think> [call A]", true)
	m.Append(thinkctx.RoleTool, "Flight A: 500", false)

	s := NewSession()
	s.Capture(m)
	if s.MessageCount() != 3 {
		t.Fatalf("MessageCount() = %d, want 3", s.MessageCount())
	}
	if !s.LoopActive {
		t.Error("LoopActive = false, want true")
	}
	if s.ReasoningCount() != 1 {
		t.Errorf("ReasoningCount() = %d, want 1", s.ReasoningCount())
	}

	restored := s.Manager()
	restored.Append(thinkctx.RoleUser, "Also find a hotel", false)
	s.Capture(restored)

	if s.ReasoningCount() != 0 {
		t.Errorf("ReasoningCount() = %d after user turn, want 0", s.ReasoningCount())
	}
	if s.LoopActive {
		t.Error("LoopActive = true after user turn, want false")
	}
	records := s.Export()
	if len(records) != 4 || records[1].Content != "[call A]" {
		t.Errorf("Export() = %+v", records)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "sessions"))

	s := NewSession()
	s.Name = "demo"
	m := thinkctx.New()
	m.Append(thinkctx.RoleUser, "q", false)
	m.Append(thinkctx.RoleAssistant, "<think>t</think> a", true)
	s.Capture(m)

	if err := store.Save(s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(s.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Name != "demo" || loaded.MessageCount() != 2 {
		t.Errorf("loaded session = %+v", loaded)
	}
	got := loaded.Messages[1]
	if got.Role != thinkctx.RoleAssistant || !got.HasReasoning || got.ID != s.Messages[1].ID {
		t.Errorf("loaded message = %+v, want %+v", got, s.Messages[1])
	}

	if err := store.Delete(s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after delete error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestStoreListSkipsCorruptedAndSorts(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	older := NewSession()
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer := NewSession()
	for _, s := range []*Session{older, newer} {
		if err := store.Save(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("List() returned %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != newer.ID || sessions[1].ID != older.ID {
		t.Errorf("List() order = [%s %s], want newest first", sessions[0].ID, sessions[1].ID)
	}

	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.ID != newer.ID {
		t.Errorf("Latest() = %s, want %s", latest.ID, newer.ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"))
	sessions, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("List() = %v, want empty", sessions)
	}
	if _, err := store.Latest(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() error = %v, want ErrNotFound", err)
	}
}

func TestFindByPrefix(t *testing.T) {
	store := NewStore(t.TempDir())

	a := &Session{ID: "aaaa1111-0000-4000-8000-000000000001", UpdatedAt: time.Now()}
	b := &Session{ID: "aaaa2222-0000-4000-8000-000000000002", UpdatedAt: time.Now().Add(-time.Minute)}
	for _, s := range []*Session{a, b} {
		if err := store.Save(s); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		prefix    string
		wantID    string
		wantErr   bool
		ambiguous bool
	}{
		{name: "unique prefix", prefix: "aaaa1", wantID: a.ID},
		{name: "full id", prefix: b.ID, wantID: b.ID},
		{name: "latest", prefix: "latest", wantID: a.ID},
		{name: "too short", prefix: "aaa", wantErr: true},
		{name: "ambiguous", prefix: "aaaa", wantErr: true, ambiguous: true},
		{name: "no match", prefix: "bbbb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.FindByPrefix(tt.prefix)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FindByPrefix(%q) error = %v, wantErr %v", tt.prefix, err, tt.wantErr)
			}
			if tt.ambiguous {
				var ambErr *AmbiguousIDError
				if !errors.As(err, &ambErr) {
					t.Fatalf("error = %v, want AmbiguousIDError", err)
				}
				if len(ambErr.Matches) != 2 {
					t.Errorf("Matches = %d, want 2", len(ambErr.Matches))
				}
				if !strings.Contains(ambErr.Error(), "aaaa1111") {
					t.Errorf("Error() = %q, want it to list matches", ambErr.Error())
				}
			}
			if err == nil && got.ID != tt.wantID {
				t.Errorf("FindByPrefix(%q) = %s, want %s", tt.prefix, got.ID, tt.wantID)
			}
		})
	}
}

func TestGetSessionDirConfigured(t *testing.T) {
	got, err := GetSessionDir("/srv/thinkctx/sessions")
	if err != nil {
		t.Fatalf("GetSessionDir() error = %v", err)
	}
	if got != "/srv/thinkctx/sessions" {
		t.Errorf("GetSessionDir() = %q", got)
	}
}
