package store

import (
	"errors"
	"testing"

	"maladireta/models"
)

func createTestCampaign(t *testing.T, s *Store, ownerID uint, name string) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{Name: name, Channel: models.ChannelEmail, Subject: name + " subject"}
	if err := s.Campaigns.Create(ownerID, campaign); err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	return campaign
}

func TestCampaignScopingAcrossOwners(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	campaign := createTestCampaign(t, s, alice.ID, "spring promo")

	if _, err := s.Campaigns.Get(campaign.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-tenant get: got %v, want ErrNotFound", err)
	}
	if err := s.Campaigns.Delete(campaign.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-tenant delete: got %v, want ErrNotFound", err)
	}
}

func TestCreateSendsRecordsPendingRows(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	campaign := createTestCampaign(t, s, alice.ID, "spring promo")
	c1 := &models.Client{Name: "Acme"}
	c2 := &models.Client{Name: "Beta"}
	for _, c := range []*models.Client{c1, c2} {
		if err := s.Clients.Create(alice.ID, c); err != nil {
			t.Fatalf("create client: %v", err)
		}
	}

	sends, err := s.Campaigns.CreateSends(campaign.ID, alice.ID, []uint{c1.ID, c2.ID})
	if err != nil {
		t.Fatalf("create sends: %v", err)
	}
	if len(sends) != 2 {
		t.Fatalf("got %d sends, want 2", len(sends))
	}
	for _, send := range sends {
		if send.Status != models.SendStatusPending {
			t.Errorf("send status = %s, want pending", send.Status)
		}
	}
}

func TestCreateSendsRejectsForeignClients(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	campaign := createTestCampaign(t, s, alice.ID, "spring promo")
	owned := &models.Client{Name: "Acme"}
	if err := s.Clients.Create(alice.ID, owned); err != nil {
		t.Fatalf("create client: %v", err)
	}
	foreign := &models.Client{Name: "Foreign"}
	if err := s.Clients.Create(bob.ID, foreign); err != nil {
		t.Fatalf("create client: %v", err)
	}

	// One foreign recipient poisons the whole request and nothing is
	// written.
	_, err := s.Campaigns.CreateSends(campaign.ID, alice.ID, []uint{owned.ID, foreign.ID})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("create sends: got %v, want ErrNotFound", err)
	}

	sends, err := s.Campaigns.ListSends(campaign.ID, alice.ID)
	if err != nil {
		t.Fatalf("list sends: %v", err)
	}
	if len(sends) != 0 {
		t.Errorf("got %d sends after failed request, want 0", len(sends))
	}
}

func TestCreateSendsForeignCampaign(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	campaign := createTestCampaign(t, s, alice.ID, "spring promo")
	client := &models.Client{Name: "Acme"}
	if err := s.Clients.Create(bob.ID, client); err != nil {
		t.Fatalf("create client: %v", err)
	}

	if _, err := s.Campaigns.CreateSends(campaign.ID, bob.ID, []uint{client.ID}); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign campaign: got %v, want ErrNotFound", err)
	}
}

func TestCampaignDeleteRemovesChildren(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	campaign := createTestCampaign(t, s, alice.ID, "spring promo")
	client := &models.Client{Name: "Acme"}
	if err := s.Clients.Create(alice.ID, client); err != nil {
		t.Fatalf("create client: %v", err)
	}
	if _, err := s.Campaigns.CreateSends(campaign.ID, alice.ID, []uint{client.ID}); err != nil {
		t.Fatalf("create sends: %v", err)
	}
	attachment := models.CampaignAttachment{CampaignID: campaign.ID, FileName: "flyer.pdf"}
	if err := s.Campaigns.DB.Create(&attachment).Error; err != nil {
		t.Fatalf("create attachment: %v", err)
	}

	if err := s.Campaigns.Delete(campaign.ID, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var sends int64
	s.Campaigns.DB.Model(&models.CampaignSend{}).Where("campaign_id = ?", campaign.ID).Count(&sends)
	if sends != 0 {
		t.Errorf("%d send rows left after campaign delete", sends)
	}
	var attachments int64
	s.Campaigns.DB.Model(&models.CampaignAttachment{}).Where("campaign_id = ?", campaign.ID).Count(&attachments)
	if attachments != 0 {
		t.Errorf("%d attachment rows left after campaign delete", attachments)
	}
}

func TestCampaignSearch(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")

	createTestCampaign(t, s, alice.ID, "Spring Promo")
	createTestCampaign(t, s, alice.ID, "Winter Sale")

	campaigns, err := s.Campaigns.List(alice.ID, "spring")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(campaigns) != 1 || campaigns[0].Name != "Spring Promo" {
		t.Errorf("search returned %d campaigns, want 1 (Spring Promo)", len(campaigns))
	}
}

func TestCampaignUpdateAfterDeleteNotFound(t *testing.T) {
	s := newTestStore(t)
	alice := createTestUser(t, s, "alice")
	campaign := createTestCampaign(t, s, alice.ID, "Launch")

	if err := s.Campaigns.Delete(campaign.ID, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	campaign.Subject = "changed"
	if err := s.Campaigns.Update(campaign); !errors.Is(err, ErrNotFound) {
		t.Errorf("update after delete: got %v, want ErrNotFound", err)
	}
}
