package config

import (
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"
)

// GenerateConfigContent renders the built-in defaults as a TOML skeleton
// with every value commented out, ready to drop into .grove.toml or the
// global config file.
func GenerateConfigContent() (string, error) {
	raw, err := gotoml.Marshal(Default())
	if err != nil {
		return "", err
	}
	return commentOutValues(string(raw)), nil
}

// commentOutValues comments every assignment line, leaving blank lines,
// section headers, and existing comments untouched. Multi-line array
// bodies belong to the assignment above them and are commented too.
func commentOutValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
