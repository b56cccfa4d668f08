package cfg

import (
	"os"
	"testing"
)

func TestLoadFile(t *testing.T) {
	// Create a temporary config file for testing
	f, err := os.CreateTemp("", "config*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())

	// Write some fake YAML to the file
	if _, err := f.WriteString(`
discord:
  token: mytoken
  owner_id: "1234"
  guild_id: "854117591135027261"
web:
  port: 8080
debug: true
canned_messages:
  flagged: Your post was flagged.
  support: Please use the support channel.
aliases:
  golang: go
case_sensitive:
  - Go
`); err != nil {
		t.Fatal(err)
	}

	f.Close()

	// Load the config file and assert that the values are correct
	config := loadFile(f.Name())
	if config.Discord.Token != "mytoken" {
		t.Errorf("unexpected token: %s", config.Discord.Token)
	}
	if config.Discord.OwnerID != "1234" {
		t.Errorf("unexpected owner id: %s", config.Discord.OwnerID)
	}
	if config.Discord.GuildID != "854117591135027261" {
		t.Errorf("unexpected guild id: %s", config.Discord.GuildID)
	}
	if config.Web.Port != 8080 {
		t.Errorf("unexpected port: %d", config.Web.Port)
	}
	if !config.Debug {
		t.Error("expected debug to be true")
	}
	if config.CannedMessages["flagged"] != "Your post was flagged." {
		t.Errorf("unexpected canned message: %s", config.CannedMessages["flagged"])
	}
	if len(config.CannedMessages) != 2 {
		t.Errorf("unexpected canned message count: %d", len(config.CannedMessages))
	}
	if config.Aliases["golang"] != "go" {
		t.Errorf("unexpected alias: %s", config.Aliases["golang"])
	}
	if len(config.CaseSensitive) != 1 || config.CaseSensitive[0] != "Go" {
		t.Errorf("unexpected case sensitive list: %v", config.CaseSensitive)
	}
}

func TestLoadFileMissing(t *testing.T) {
	config := loadFile("does-not-exist.yaml")
	if config == nil {
		t.Fatal("expected a zero-value config, got nil")
	}
	if config.Discord.Token != "" {
		t.Errorf("unexpected token: %s", config.Discord.Token)
	}
}
