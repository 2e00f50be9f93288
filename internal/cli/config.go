package cli

import (
	"os"
	"path/filepath"

	"github.com/partydeck/playerlink/internal/client/identity"
)

// Config holds CLI configuration
type Config struct {
	ServerURL    string
	Token        string
	TokenFile    string
	IdentityFile string
	Output       string
	Verbose      bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    getEnvOrDefault("PLAYERLINK_SERVER", "http://localhost:8080"),
		Token:        os.Getenv("PLAYERLINK_TOKEN"),
		TokenFile:    getEnvOrDefault("PLAYERLINK_TOKEN_FILE", defaultConfigPath("token")),
		IdentityFile: getEnvOrDefault("PLAYERLINK_IDENTITY_FILE", identity.DefaultPath()),
		Output:       "text",
	}
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = string(data)
	return nil
}

// SaveToken saves the token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token

	dir := filepath.Dir(c.TokenFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

func defaultConfigPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".playerlink", name)
	}
	return filepath.Join(home, ".playerlink", name)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
