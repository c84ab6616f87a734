package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pavelanni/wordgen/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *Store, email, job string) string {
	t.Helper()
	id, err := s.CreateUser(model.User{Email: email, PasswordHash: "hash", JobTitle: job})
	if err != nil {
		t.Fatalf("createTestUser: %v", err)
	}
	return id
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)

	count, err := s.UserCount()
	if err != nil {
		t.Fatalf("UserCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 users, got %d", count)
	}

	id := createTestUser(t, s, "  Ann@Example.COM ", "Nurse")
	if id == "" {
		t.Fatal("expected generated ID")
	}

	u, err := s.GetUserByEmail("ann@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.ID != id {
		t.Errorf("expected ID %q, got %q", id, u.ID)
	}
	if u.Email != "ann@example.com" {
		t.Errorf("expected normalized email, got %q", u.Email)
	}
	if u.JobTitle != "Nurse" {
		t.Errorf("expected job title Nurse, got %q", u.JobTitle)
	}

	// Lookup is case-insensitive through normalization.
	u, err = s.GetUserByEmail("ANN@example.com")
	if err != nil || u == nil {
		t.Fatalf("GetUserByEmail upper-case: %v, %v", u, err)
	}

	byID, err := s.GetUserByID(id)
	if err != nil || byID == nil {
		t.Fatalf("GetUserByID: %v, %v", byID, err)
	}
	if byID.Email != u.Email {
		t.Errorf("expected %q, got %q", u.Email, byID.Email)
	}

	// Not found.
	missing, err := s.GetUserByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing user, got %+v", missing)
	}

	// Duplicate email is rejected.
	if _, err := s.CreateUser(model.User{Email: "ann@example.com", PasswordHash: "x", JobTitle: "y"}); err == nil {
		t.Error("expected error for duplicate email")
	}

	createTestUser(t, s, "bob@example.com", "Pilot")
	users, err := s.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestGenerationOncePerDay(t *testing.T) {
	s := newTestStore(t)
	uid := createTestUser(t, s, "ann@example.com", "Nurse")

	got, err := s.GetGeneration(uid, "01-03-2025")
	if err != nil {
		t.Fatalf("GetGeneration: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil before any generation, got %+v", got)
	}

	first, err := s.SaveGeneration(model.Generation{
		UserID:      uid,
		GeneratedOn: "01-03-2025",
		Words:       json.RawMessage(`[{"Term":"Triage"}]`),
	})
	if err != nil {
		t.Fatalf("SaveGeneration: %v", err)
	}
	if string(first.Words) != `[{"Term":"Triage"}]` {
		t.Errorf("unexpected words %s", first.Words)
	}

	// A second save for the same day keeps the first result.
	second, err := s.SaveGeneration(model.Generation{
		UserID:      uid,
		GeneratedOn: "01-03-2025",
		Words:       json.RawMessage(`[{"Term":"Other"}]`),
	})
	if err != nil {
		t.Fatalf("SaveGeneration again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same generation ID %d, got %d", first.ID, second.ID)
	}
	if string(second.Words) != `[{"Term":"Triage"}]` {
		t.Errorf("expected first stored words, got %s", second.Words)
	}

	count, err := s.GenerationCount()
	if err != nil {
		t.Fatalf("GenerationCount: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 generation, got %d", count)
	}
}

func TestListGenerationsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ann := createTestUser(t, s, "ann@example.com", "Nurse")
	bob := createTestUser(t, s, "bob@example.com", "Pilot")

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, day := range []string{"01-03-2025", "02-03-2025", "03-03-2025"} {
		if _, err := s.SaveGeneration(model.Generation{
			UserID:      ann,
			GeneratedOn: day,
			Words:       json.RawMessage(`[]`),
			CreatedAt:   base.AddDate(0, 0, i),
		}); err != nil {
			t.Fatalf("SaveGeneration %s: %v", day, err)
		}
	}
	if _, err := s.SaveGeneration(model.Generation{UserID: bob, GeneratedOn: "02-03-2025", Words: json.RawMessage(`[]`)}); err != nil {
		t.Fatalf("SaveGeneration bob: %v", err)
	}

	gens, err := s.ListGenerations(ann)
	if err != nil {
		t.Fatalf("ListGenerations: %v", err)
	}
	if len(gens) != 3 {
		t.Fatalf("expected 3 generations, got %d", len(gens))
	}
	want := []string{"03-03-2025", "02-03-2025", "01-03-2025"}
	for i, g := range gens {
		if g.GeneratedOn != want[i] {
			t.Errorf("gens[%d]: expected %s, got %s", i, want[i], g.GeneratedOn)
		}
		if g.UserID != ann {
			t.Errorf("gens[%d]: leaked generation of user %s", i, g.UserID)
		}
	}

	none, err := s.ListGenerations("nobody")
	if err != nil {
		t.Fatalf("ListGenerations nobody: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no generations, got %d", len(none))
	}
}

func TestExportAll(t *testing.T) {
	s := newTestStore(t)
	ann := createTestUser(t, s, "ann@example.com", "Nurse")
	createTestUser(t, s, "bob@example.com", "Pilot")

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, day := range []string{"01-03-2025", "02-03-2025"} {
		if _, err := s.SaveGeneration(model.Generation{
			UserID:      ann,
			GeneratedOn: day,
			Words:       json.RawMessage(`[{"Term":"Triage"}]`),
			CreatedAt:   base.AddDate(0, 0, i),
		}); err != nil {
			t.Fatalf("SaveGeneration: %v", err)
		}
	}

	export, err := s.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if export.NumUsers != 2 {
		t.Fatalf("expected 2 users, got %d", export.NumUsers)
	}

	var annExport *model.UserExport
	for i := range export.Users {
		if export.Users[i].UserID == ann {
			annExport = &export.Users[i]
		}
	}
	if annExport == nil {
		t.Fatal("ann missing from export")
	}
	if len(annExport.Generations) != 2 {
		t.Fatalf("expected 2 generations, got %d", len(annExport.Generations))
	}
	if annExport.Generations[0].GeneratedOn != "01-03-2025" {
		t.Errorf("expected oldest first, got %s", annExport.Generations[0].GeneratedOn)
	}

	data, err := json.Marshal(export)
	if err != nil {
		t.Fatalf("marshal export: %v", err)
	}
	if !json.Valid(data) {
		t.Error("export is not valid JSON")
	}
}
