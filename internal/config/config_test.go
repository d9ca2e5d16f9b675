package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ldapuser.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return path
}

const validConfig = `
[ldap]
server = "ldap://ldap.example.com:389"
binddn = "cn=admin,dc=example,dc=com"
bindpw = "secret"
timeout = 5

[user]
basedn = "ou=users,dc=example,dc=com"

[group]
basedn = "ou=groups,dc=example,dc=com"
`

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.LDAP.Server != "ldap://ldap.example.com:389" {
		t.Errorf("LDAP.Server = %q", cfg.LDAP.Server)
	}

	if cfg.LDAP.Timeout != 5 {
		t.Errorf("LDAP.Timeout = %d, want 5", cfg.LDAP.Timeout)
	}

	if cfg.User.BaseDN == "" {
		t.Error("User.BaseDN should not be empty")
	}

	// defaults
	if cfg.User.MinUID != 1500 || cfg.User.MaxUID != 2000 {
		t.Errorf("uid range = %d..%d, want 1500..2000", cfg.User.MinUID, cfg.User.MaxUID)
	}

	if cfg.User.MinGID != 1500 || cfg.User.MaxGID != 2000 {
		t.Errorf("gid range = %d..%d, want 1500..2000", cfg.User.MinGID, cfg.User.MaxGID)
	}

	if cfg.User.MailDomain == "" {
		t.Error("User.MailDomain should have a default")
	}
}

func TestReadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing server",
			content: `
[user]
basedn = "ou=users,dc=example,dc=com"
[group]
basedn = "ou=groups,dc=example,dc=com"
`,
			wantErr: "ldap.server",
		},
		{
			name: "missing user basedn",
			content: `
[ldap]
server = "ldap://x"
[group]
basedn = "ou=groups,dc=example,dc=com"
`,
			wantErr: "user.basedn",
		},
		{
			name: "missing group basedn",
			content: `
[ldap]
server = "ldap://x"
[user]
basedn = "ou=users,dc=example,dc=com"
`,
			wantErr: "group.basedn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}

			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadConfigInvertedRange(t *testing.T) {
	_, err := ReadConfig(writeConfig(t, strings.Replace(validConfig,
		`basedn = "ou=users,dc=example,dc=com"`,
		"basedn = \"ou=users,dc=example,dc=com\"\nminuid = 2000\nmaxuid = 1500", 1)))
	if err == nil {
		t.Fatal("expected an error for min >= max")
	}
}

func TestReadConfigEnvOverride(t *testing.T) {
	t.Setenv("LDAPUSER_CONFIG_JSON", `{"LDAP":{"Server":"ldap://other:389"}}`)

	cfg, err := ReadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.LDAP.Server != "ldap://other:389" {
		t.Errorf("LDAP.Server = %q, want env override to win", cfg.LDAP.Server)
	}
}
