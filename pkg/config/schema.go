package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/repo-config.schema.json
var repoConfigSchema []byte

// ValidateRepoConfig validates comment-free config JSON against the embedded
// schema. Malformed JSON is reported as a validation error.
func ValidateRepoConfig(configData []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(repoConfigSchema)
	documentLoader := gojsonschema.NewBytesLoader(configData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("invalid JSON: %v", err)
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
