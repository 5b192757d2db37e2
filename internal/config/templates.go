package config

import (
	"fmt"
	"os"
)

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(Template), 0o600)
}

const Template = `# fieldctl configuration
format = "toml"
output = ""
firmware_version = "0.15.0"
namespaces = ["command", "info", "feedback"]
log_level = "info"
`
