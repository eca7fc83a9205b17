package store

import (
	"errors"
	"testing"

	"maladireta/models"
)

func newConfig(host string, active bool) *models.EmailConfig {
	return &models.EmailConfig{
		Host:      host,
		Port:      587,
		Secure:    true,
		Username:  "mailer",
		Password:  "secret",
		FromEmail: "mailer@" + host,
		IsActive:  active,
	}
}

func countActive(t *testing.T, s *Store, ownerID uint) int {
	t.Helper()
	configs, err := s.EmailConfigs.List(ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	active := 0
	for _, c := range configs {
		if c.IsActive {
			active++
		}
	}
	return active
}

func TestCreateActiveConfigDeactivatesPrevious(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	if err := s.EmailConfigs.Create(alice.ID, newConfig("smtp.x.com", true)); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := s.EmailConfigs.Create(alice.ID, newConfig("smtp.y.com", true)); err != nil {
		t.Fatalf("create second: %v", err)
	}

	if got := countActive(t, s, alice.ID); got != 1 {
		t.Errorf("active configs = %d, want exactly 1", got)
	}

	active, err := s.EmailConfigs.GetActive(alice.ID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.Host != "smtp.y.com" {
		t.Errorf("active host = %s, want smtp.y.com", active.Host)
	}
}

func TestCreateInactiveConfigLeavesActiveAlone(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	if err := s.EmailConfigs.Create(alice.ID, newConfig("smtp.x.com", true)); err != nil {
		t.Fatalf("create active: %v", err)
	}
	if err := s.EmailConfigs.Create(alice.ID, newConfig("smtp.y.com", false)); err != nil {
		t.Fatalf("create inactive: %v", err)
	}

	active, err := s.EmailConfigs.GetActive(alice.ID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.Host != "smtp.x.com" {
		t.Errorf("active host = %s, want smtp.x.com", active.Host)
	}
}

func TestActivatingConfigOnUpdate(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	first := newConfig("smtp.x.com", true)
	second := newConfig("smtp.y.com", false)
	if err := s.EmailConfigs.Create(alice.ID, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := s.EmailConfigs.Create(alice.ID, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	second.IsActive = true
	if err := s.EmailConfigs.Update(second); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := countActive(t, s, alice.ID); got != 1 {
		t.Errorf("active configs = %d, want exactly 1", got)
	}
	active, err := s.EmailConfigs.GetActive(alice.ID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("active id = %d, want %d", active.ID, second.ID)
	}
}

func TestActiveConfigScopedPerOwner(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	if err := s.EmailConfigs.Create(alice.ID, newConfig("smtp.x.com", true)); err != nil {
		t.Fatalf("create alice config: %v", err)
	}
	if err := s.EmailConfigs.Create(bob.ID, newConfig("smtp.b.com", true)); err != nil {
		t.Fatalf("create bob config: %v", err)
	}

	// Bob's activation does not touch Alice's config
	active, err := s.EmailConfigs.GetActive(alice.ID)
	if err != nil {
		t.Fatalf("get alice active: %v", err)
	}
	if active.Host != "smtp.x.com" {
		t.Errorf("alice active host = %s, want smtp.x.com", active.Host)
	}

	// And Bob cannot reach Alice's row
	if _, err := s.EmailConfigs.Get(active.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-tenant get: got %v, want ErrNotFound", err)
	}
}

func TestGetActiveWithoutActiveConfig(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	if err := s.EmailConfigs.Create(alice.ID, newConfig("smtp.x.com", false)); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.EmailConfigs.GetActive(alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get active: got %v, want ErrNotFound", err)
	}
}

func TestEmailConfigUpdateAfterDeleteNotFound(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	keeper := newConfig("smtp.x.com", true)
	if err := s.EmailConfigs.Create(alice.ID, keeper); err != nil {
		t.Fatalf("create keeper: %v", err)
	}
	doomed := newConfig("smtp.y.com", false)
	if err := s.EmailConfigs.Create(alice.ID, doomed); err != nil {
		t.Fatalf("create doomed: %v", err)
	}
	if err := s.EmailConfigs.Delete(doomed.ID, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	doomed.IsActive = true
	if err := s.EmailConfigs.Update(doomed); !errors.Is(err, ErrNotFound) {
		t.Errorf("update after delete: got %v, want ErrNotFound", err)
	}

	// The rollback leaves the surviving configuration active
	active, err := s.EmailConfigs.GetActive(alice.ID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.Host != "smtp.x.com" {
		t.Errorf("active host = %s, want smtp.x.com", active.Host)
	}
}
