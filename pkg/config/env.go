package config

import (
	"github.com/fulmenhq/repokit/internal/toolerr"
	"github.com/joho/godotenv"
)

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables that are already set keep their value.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return toolerr.Wrap(toolerr.KindConfig, err, "failed to load env file %s", path)
	}
	return nil
}
