package config

import (
	"strings"
	"testing"
)

func TestValidateRepoConfig(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "empty object", doc: `{}`},
		{name: "full config", doc: `{"CONTACT_EMAIL":"security@acme.io","PLACEHOLDER_REPO":"smcnab1/project-template-repo","LICENSE_START_YEAR":"2019","PROJECT_HOMEPAGE":"https://acme.io"}`},
		{name: "integer start year", doc: `{"LICENSE_START_YEAR":2020}`},
		{name: "blank start year", doc: `{"LICENSE_START_YEAR":""}`},
		{name: "unknown keys pass", doc: `{"SOMETHING_ELSE":true}`},
		{name: "short start year", doc: `{"LICENSE_START_YEAR":"20"}`, wantErr: "validation failed"},
		{name: "email not a string", doc: `{"CONTACT_EMAIL":42}`, wantErr: "validation failed"},
		{name: "top-level array", doc: `[]`, wantErr: "validation failed"},
		{name: "malformed", doc: `{"CONTACT_EMAIL":`, wantErr: "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepoConfig([]byte(tt.doc))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateRepoConfig() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateRepoConfig() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateRepoConfig() error = %v, expected %q", err, tt.wantErr)
			}
		})
	}
}
