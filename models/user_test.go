package models

import "testing"

func TestHasPermissionAdminBypassesFlags(t *testing.T) {
	admin := &User{
		Role:                 RoleAdmin,
		CanAccessDirectMail:  false,
		CanAccessEmailConfig: false,
	}

	caps := []Capability{CapabilityDirectMail, CapabilityEmailConfig, CapabilityAccountManagement}
	for _, cap := range caps {
		if !admin.HasPermission(cap) {
			t.Errorf("admin denied %s", cap)
		}
	}
}

func TestHasPermissionCapabilityFlags(t *testing.T) {
	tests := []struct {
		name       string
		directMail bool
		emailCfg   bool
		cap        Capability
		want       bool
	}{
		{"direct mail granted", true, false, CapabilityDirectMail, true},
		{"direct mail denied", false, true, CapabilityDirectMail, false},
		{"email config granted", false, true, CapabilityEmailConfig, true},
		{"email config denied", true, false, CapabilityEmailConfig, false},
		{"account management always denied", true, true, CapabilityAccountManagement, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{
				Role:                 RoleUser,
				CanAccessDirectMail:  tt.directMail,
				CanAccessEmailConfig: tt.emailCfg,
			}
			if got := user.HasPermission(tt.cap); got != tt.want {
				t.Errorf("HasPermission(%s) = %v, want %v", tt.cap, got, tt.want)
			}
		})
	}
}

func TestHasPermissionUnknownCapabilityFailsClosed(t *testing.T) {
	user := &User{
		Role:                 RoleUser,
		CanAccessDirectMail:  true,
		CanAccessEmailConfig: true,
	}
	if user.HasPermission(Capability(99)) {
		t.Error("unknown capability must be denied")
	}
}

func TestSanitizeClearsCredentials(t *testing.T) {
	token := "secret-token"
	user := &User{PasswordHash: "hash", ResetToken: &token}
	user.Sanitize()

	if user.PasswordHash != "" {
		t.Error("password hash not cleared")
	}
	if user.ResetToken != nil || user.ResetTokenExpiresAt != nil {
		t.Error("reset token fields not cleared")
	}
}
