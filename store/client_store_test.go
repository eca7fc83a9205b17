package store

import (
	"errors"
	"testing"
	"time"

	"maladireta/models"
)

func TestClientScopingAcrossOwners(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	client := &models.Client{Name: "Acme", Email: "a@acme.com"}
	if err := s.Clients.Create(alice.ID, client); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Bob cannot read Alice's client; the error is not-found, not
	// forbidden.
	if _, err := s.Clients.Get(client.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-tenant get: got %v, want ErrNotFound", err)
	}

	// Bob's listing is empty
	clients, err := s.Clients.List(bob.ID, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(clients) != 0 {
		t.Errorf("bob sees %d clients, want 0", len(clients))
	}

	// Bob cannot delete it either, and the row survives
	if err := s.Clients.Delete(client.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-tenant delete: got %v, want ErrNotFound", err)
	}
	if _, err := s.Clients.Get(client.ID, alice.ID); err != nil {
		t.Errorf("owner get after foreign delete attempt: %v", err)
	}
}

func TestClientCreateForcesOwner(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	// Client-supplied owner id must be overridden by the
	// authenticated context.
	client := &models.Client{Name: "Acme", OwnerID: bob.ID}
	if err := s.Clients.Create(alice.ID, client); err != nil {
		t.Fatalf("create: %v", err)
	}
	if client.OwnerID != alice.ID {
		t.Errorf("owner = %d, want %d", client.OwnerID, alice.ID)
	}
}

func TestClientSearchMatchesAnyField(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	clients := []*models.Client{
		{Name: "Acme Corp", Email: "sales@acme.com"},
		{Name: "Beta Ltda", City: "Fortaleza"},
		{Name: "Gamma SA", BusinessArea: "logistics", TaxID: "12.345.678/0001-90"},
	}
	for _, c := range clients {
		if err := s.Clients.Create(alice.ID, c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tests := []struct {
		search string
		want   int
	}{
		{"acme", 1},       // name, case-insensitive
		{"FORTALEZA", 1},  // city
		{"logist", 1},     // business area
		{"345.678", 1},    // tax id
		{"a", 3},          // substring across all rows
		{"nonexistent", 0},
	}
	for _, tt := range tests {
		got, err := s.Clients.List(alice.ID, tt.search)
		if err != nil {
			t.Fatalf("list %q: %v", tt.search, err)
		}
		if len(got) != tt.want {
			t.Errorf("search %q returned %d rows, want %d", tt.search, len(got), tt.want)
		}
	}
}

func TestClientListOrdersNewestFirst(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	old := &models.Client{Name: "Old"}
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	recent := &models.Client{Name: "Recent"}
	recent.CreatedAt = time.Now().Add(-1 * time.Hour)

	for _, c := range []*models.Client{old, recent} {
		if err := s.Clients.Create(alice.ID, c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	clients, err := s.Clients.List(alice.ID, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("got %d clients, want 2", len(clients))
	}
	if clients[0].Name != "Recent" {
		t.Errorf("first row = %s, want Recent", clients[0].Name)
	}
}

func TestClientUpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	client := &models.Client{Name: "Acme", Status: models.ClientStatusPotential}
	if err := s.Clients.Create(alice.ID, client); err != nil {
		t.Fatalf("create: %v", err)
	}

	client.Status = models.ClientStatusActive
	if err := s.Clients.Update(client); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Clients.Get(client.ID, alice.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.ClientStatusActive {
		t.Errorf("status = %s, want active", got.Status)
	}

	if err := s.Clients.Delete(client.ID, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Clients.Get(client.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: got %v, want ErrNotFound", err)
	}
}

func TestClientUpdateAfterDeleteNotFound(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	client := &models.Client{Name: "Acme"}
	if err := s.Clients.Create(alice.ID, client); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Clients.Delete(client.ID, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	client.Name = "Acme Renamed"
	if err := s.Clients.Update(client); !errors.Is(err, ErrNotFound) {
		t.Errorf("update after delete: got %v, want ErrNotFound", err)
	}
}
