package cfg

import (
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config struct with all parameters
type Config struct {
	Discord struct {
		Token   string `yaml:"token"`
		OwnerID string `yaml:"owner_id,omitempty"`
		GuildID string `yaml:"guild_id"`
	} `yaml:"discord"`
	Web struct {
		Port int `yaml:"port,omitempty"`
	} `yaml:"web"`
	Debug bool `yaml:"debug,omitempty"`

	// CannedMessages maps a message key to the text posted by /mod_message.
	CannedMessages map[string]string `yaml:"canned_messages"`

	// Aliases maps an alternate keyword to an existing track name so that
	// both keywords yield the same emoji reaction.
	Aliases map[string]string `yaml:"aliases"`

	// CaseSensitive lists track names that must match with exact case.
	CaseSensitive []string `yaml:"case_sensitive"`
}

const configFileName = "config.yaml"

// LoadConfigFile reads config.yaml and creates a Config struct
func LoadConfigFile() *Config {
	return loadFile(configFileName)
}

func loadFile(cf string) *Config {
	config := &Config{}
	configFile, err := os.Open(cf)
	if err != nil {
		log.Warningln("Could not load config file.", err)
		return config
	}
	defer configFile.Close()

	d := yaml.NewDecoder(configFile)

	if err := d.Decode(&config); err != nil {
		log.Errorln("Could not decode config file.", err)
	}

	return config
}
