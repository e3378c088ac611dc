package extension

import (
	"testing"
)

const validYAML = `
metadata:
  name: go-toolchain
  version: 1.2.0
  description: Go compiler and tooling
  category: language
  dependencies:
    - base-system
install:
  method: mise
  mise:
    tools:
      go: 1.25.0
    reshimAfterInstall: true
configure:
  environment:
    - key: GOPATH
      value: $HOME/go
      scope: bashrc
validate:
  commands:
    - name: go
      versionFlag: version
      expectedPattern: "go1\\."
bom:
  tools:
    - name: go
      version: 1.25.0
      type: compiler
      source: mise
`

func TestValidateSchema_Valid(t *testing.T) {
	issues, err := ValidateSchema([]byte(validYAML))
	if err != nil {
		t.Fatalf("ValidateSchema error: %v", err)
	}
	if len(issues) != 0 {
		for _, issue := range issues {
			t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
		}
		t.Fatalf("expected no issues, got %d", len(issues))
	}
}

func TestValidateSchema_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing metadata",
			yaml: "install:\n  method: apt\n  apt:\n    packages: [curl]\nvalidate:\n  commands:\n    - name: curl\n",
		},
		{
			name: "bad category",
			yaml: "metadata:\n  name: x1\n  version: 1.0.0\n  description: d\n  category: games\ninstall:\n  method: apt\n  apt:\n    packages: [curl]\nvalidate:\n  commands:\n    - name: curl\n",
		},
		{
			name: "bad name pattern",
			yaml: "metadata:\n  name: Bad_Name\n  version: 1.0.0\n  description: d\n  category: base\ninstall:\n  method: apt\n  apt:\n    packages: [curl]\nvalidate:\n  commands:\n    - name: curl\n",
		},
		{
			name: "unknown install method",
			yaml: "metadata:\n  name: x1\n  version: 1.0.0\n  description: d\n  category: base\ninstall:\n  method: brew\nvalidate:\n  commands:\n    - name: curl\n",
		},
		{
			name: "bad env scope",
			yaml: "metadata:\n  name: x1\n  version: 1.0.0\n  description: d\n  category: base\ninstall:\n  method: apt\n  apt:\n    packages: [curl]\nconfigure:\n  environment:\n    - key: K\n      value: v\n      scope: zshrc\nvalidate:\n  commands:\n    - name: curl\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := ValidateSchema([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ValidateSchema error: %v", err)
			}
			if len(issues) == 0 {
				t.Errorf("expected issues, got none")
			}
		})
	}
}

func TestValidateSchema_BadYAML(t *testing.T) {
	_, err := ValidateSchema([]byte("metadata: [unclosed"))
	if err == nil {
		t.Fatal("expected error for malformed YAML, got nil")
	}
}
