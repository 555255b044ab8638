package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovekit/grove/pkg/errors"
)

func TestIntegrationSnippet(t *testing.T) {
	tests := []struct {
		shell    string
		contains string
	}{
		{"bash", "builtin cd"},
		{"zsh", "builtin cd"},
		{"fish", "function grove"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			snippet, err := IntegrationSnippet(tt.shell)
			require.NoError(t, err)
			assert.Contains(t, snippet, tt.contains)
			assert.Contains(t, snippet, CDPrefix,
				"wrapper must parse the cd sentinel")
		})
	}
}

func TestIntegrationSnippet_BashAndZshShared(t *testing.T) {
	bash, err := IntegrationSnippet("bash")
	require.NoError(t, err)
	zsh, err := IntegrationSnippet("zsh")
	require.NoError(t, err)
	assert.Equal(t, bash, zsh)
}

func TestIntegrationSnippet_UnsupportedShell(t *testing.T) {
	_, err := IntegrationSnippet("powershell")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCDPrefix_StableSentinel(t *testing.T) {
	// The wrapper scripts hardcode the sentinel; changing the constant
	// must not drift from the embedded scripts.
	bash, _ := IntegrationSnippet("bash")
	assert.True(t, strings.Contains(bash, CDPrefix+"*"))
}
