package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AccessKeyEnv is the variable holding the Porcupine access key.
const AccessKeyEnv = "PORCUPINE_ACCESS_KEY"

// ErrMissingAccessKey is returned when no access key could be found.
var ErrMissingAccessKey = errors.New("missing " + AccessKeyEnv)

// ResolveAccessKey fills cfg.AccessKey. The config value wins, then the
// process environment, then the dotenv file at envPath. A missing dotenv
// file is not an error.
func ResolveAccessKey(cfg *Config, envPath string) error {
	if strings.TrimSpace(cfg.AccessKey) != "" {
		cfg.AccessKey = strings.TrimSpace(cfg.AccessKey)
		return nil
	}
	if v := strings.TrimSpace(os.Getenv(AccessKeyEnv)); v != "" {
		cfg.AccessKey = v
		return nil
	}
	if envPath != "" {
		vals, err := godotenv.Read(envPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", envPath, err)
		}
		if v := strings.TrimSpace(vals[AccessKeyEnv]); v != "" {
			cfg.AccessKey = v
			return nil
		}
	}
	return ErrMissingAccessKey
}
