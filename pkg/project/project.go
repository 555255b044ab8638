// Package project inspects a directory tree for markers of known
// ecosystems and infers the matching dependency-install command.
package project

import (
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/grovekit/grove/pkg/logging"
)

// Ecosystem names. A repository may belong to several at once (monorepo).
const (
	Node   = "node"
	Rust   = "rust"
	Python = "python"
	Go     = "go"
	Java   = "java"
)

// InstallStep is an inferred dependency installation: run Command (argv)
// unless Dir already exists.
type InstallStep struct {
	Ecosystem string
	Dir       string
	Command   []string
}

// MavenInfo is the module layout read from a top-level pom.xml.
type MavenInfo struct {
	ArtifactID string
	Modules    []string
}

// Info holds the detected ecosystems of a repository and their inferred
// install steps. Derived fresh per call; repository contents can change
// between invocations, so it is never cached.
type Info struct {
	Ecosystems map[string]bool
	Installs   []InstallStep

	// Maven is set when a parseable pom.xml exists at the root.
	Maven *MavenInfo
}

// Has reports whether the named ecosystem was detected.
func (i Info) Has(ecosystem string) bool {
	return i.Ecosystems[ecosystem]
}

// dirOwners maps symlink-candidate directory names to the ecosystem that
// must be present for the name to be acted on. Names not listed here are
// ecosystem-agnostic and always relevant.
var dirOwners = map[string]string{
	"node_modules":  Node,
	"target":        Rust,
	".venv":         Python,
	"venv":          Python,
	"__pycache__":   Python,
	".mypy_cache":   Python,
	".pytest_cache": Python,
	".ruff_cache":   Python,
	"vendor":        Go,
	".gradle":       Java,
	"build":         Java,
}

// Relevant reports whether a symlink directory name applies to this
// repository: owned names require their ecosystem, everything else passes.
// Maven writes build output to target just like Cargo, so a pom.xml makes
// that name relevant without a Rust toolchain.
func (i Info) Relevant(dirName string) bool {
	owner, owned := dirOwners[dirName]
	if !owned {
		return true
	}
	if i.Has(owner) {
		return true
	}
	return dirName == "target" && i.Maven != nil
}

// Detect probes root for ecosystem marker files.
func Detect(root string) Info {
	logger := logging.GetLogger("project")
	info := Info{Ecosystems: make(map[string]bool)}

	if fileExists(filepath.Join(root, "package.json")) {
		info.Ecosystems[Node] = true
		if cmd := nodeInstallCommand(root); cmd != nil {
			info.Installs = append(info.Installs, InstallStep{Ecosystem: Node, Dir: "node_modules", Command: cmd})
		}
	}

	if fileExists(filepath.Join(root, "Cargo.toml")) {
		info.Ecosystems[Rust] = true
	}

	if fileExists(filepath.Join(root, "pyproject.toml")) ||
		fileExists(filepath.Join(root, "requirements.txt")) ||
		fileExists(filepath.Join(root, "setup.py")) {
		info.Ecosystems[Python] = true
		if cmd := pythonInstallCommand(root); cmd != nil {
			info.Installs = append(info.Installs, InstallStep{Ecosystem: Python, Dir: ".venv", Command: cmd})
		}
	}

	if fileExists(filepath.Join(root, "go.mod")) {
		info.Ecosystems[Go] = true
	}

	if fileExists(filepath.Join(root, "build.gradle")) ||
		fileExists(filepath.Join(root, "build.gradle.kts")) ||
		fileExists(filepath.Join(root, "pom.xml")) {
		info.Ecosystems[Java] = true
		info.Maven = inspectMaven(root, logger)
	}

	logger.Debug().
		Interface("ecosystems", info.Ecosystems).
		Int("installSteps", len(info.Installs)).
		Msg("Project detection complete")

	return info
}

// nodeInstallCommand picks the install command from the lockfile present,
// first match wins. No lockfile means no install step.
func nodeInstallCommand(root string) []string {
	switch {
	case fileExists(filepath.Join(root, "bun.lockb")) || fileExists(filepath.Join(root, "bun.lock")):
		return []string{"bun", "install", "--frozen-lockfile"}
	case fileExists(filepath.Join(root, "pnpm-lock.yaml")):
		return []string{"pnpm", "install", "--frozen-lockfile"}
	case fileExists(filepath.Join(root, "yarn.lock")):
		return []string{"yarn", "install", "--frozen-lockfile"}
	case fileExists(filepath.Join(root, "package-lock.json")):
		return []string{"npm", "ci"}
	}
	return nil
}

func pythonInstallCommand(root string) []string {
	switch {
	case fileExists(filepath.Join(root, "uv.lock")):
		return []string{"uv", "sync"}
	case fileExists(filepath.Join(root, "Pipfile.lock")):
		return []string{"pipenv", "install"}
	case fileExists(filepath.Join(root, "poetry.lock")):
		return []string{"poetry", "install"}
	case fileExists(filepath.Join(root, "requirements.txt")):
		return []string{"pip", "install", "-r", "requirements.txt"}
	}
	return nil
}

// inspectMaven reads the module layout of a Maven build, best-effort.
// Multi-module builds are the common case where heavy build output piles
// up per module. An unreadable or malformed pom.xml yields nil.
func inspectMaven(root string, logger zerolog.Logger) *MavenInfo {
	pom := filepath.Join(root, "pom.xml")
	if !fileExists(pom) {
		return nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(pom); err != nil {
		logger.Debug().Err(err).Msg("Could not parse pom.xml")
		return nil
	}

	projectEl := doc.SelectElement("project")
	if projectEl == nil {
		return nil
	}

	maven := &MavenInfo{}
	if el := projectEl.SelectElement("artifactId"); el != nil {
		maven.ArtifactID = el.Text()
	}
	if el := projectEl.SelectElement("modules"); el != nil {
		for _, m := range el.SelectElements("module") {
			maven.Modules = append(maven.Modules, m.Text())
		}
	}

	logger.Debug().
		Str("artifactId", maven.ArtifactID).
		Strs("modules", maven.Modules).
		Msg("Maven project detected")
	return maven
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
