// Package shell provides the shell-integration snippets that wrap the
// grove binary. The wrapper scans output for the cd sentinel so commands
// like switch and start can change the caller's directory.
package shell

import (
	"github.com/grovekit/grove/pkg/errors"
)

// CDPrefix marks an output line carrying the directory to cd into. Only
// the wrapper functions below interpret it; everything else prints it
// verbatim.
const CDPrefix = "__grove_cd:"

// IntegrationSnippet returns the wrapper function for a shell. Bash and
// zsh share one snippet.
func IntegrationSnippet(shell string) (string, error) {
	switch shell {
	case "bash", "zsh":
		return bashZshSnippet, nil
	case "fish":
		return fishSnippet, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput,
			"unsupported shell %q (expected bash, zsh, or fish)", shell)
	}
}

const bashZshSnippet = `# grove shell integration
# Add to your .bashrc or .zshrc:
#   eval "$(grove init zsh)"

grove() {
    local result
    result=$(command grove "$@" 2>&1)
    local exit_code=$?

    local has_cd=false
    local cd_target=""
    while IFS= read -r line; do
        if [[ "$line" == __grove_cd:* ]]; then
            has_cd=true
            cd_target="${line#__grove_cd:}"
        else
            printf '%s\n' "$line"
        fi
    done <<< "$result"

    if [[ "$has_cd" == true ]]; then
        builtin cd "$cd_target" || return
    fi

    return $exit_code
}
`

const fishSnippet = `# grove shell integration
# Add to your config.fish:
#   grove init fish | source

function grove
    set -l result (command grove $argv 2>&1)
    set -l exit_code $status

    for line in $result
        if string match -q '__grove_cd:*' $line
            set -l target (string replace '__grove_cd:' '' $line)
            builtin cd $target
        else
            echo $line
        end
    end

    return $exit_code
end
`
