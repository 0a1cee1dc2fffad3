// Package config holds vibe's configuration: platform defaults overridden
// by an optional ~/.config/vibe/config.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/vibecoding/vibe/internal/platform"
)

// ToolsConfig holds the coding tool commands. The plain commands are
// wrapper scripts used in POSIX/WSL shells; the direct variants are used
// under PowerShell where the wrappers don't exist.
type ToolsConfig struct {
	Claude   string `toml:"claude"`
	Codex    string `toml:"codex"`
	OpenCode string `toml:"opencode"`

	ClaudeDirect   string `toml:"claude_direct"`
	CodexDirect    string `toml:"codex_direct"`
	OpenCodeDirect string `toml:"opencode_direct"`
}

// Config holds the vibe configuration.
type Config struct {
	RepoBase           string `toml:"repo_base"`
	RemoteRepoBase     string `toml:"remote_repo_base"`
	WorktreeBase       string `toml:"worktree_base"`
	RemoteWorktreeBase string `toml:"remote_worktree_base"`

	SSHKey      string `toml:"ssh_key"`
	SSHUserHost string `toml:"ssh_user_host"`

	UnlockKeychain  bool   `toml:"unlock_keychain"`
	KeychainCommand string `toml:"keychain_command"`

	RemoteIsWindows    bool   `toml:"remote_is_windows"`
	DefaultRemoteShell string `toml:"default_remote_shell"` // "", "wsl", or "powershell"
	RemoteLoginShell   string `toml:"remote_login_shell"`

	JunkFiles []string `toml:"junk_files"`

	Tools ToolsConfig `toml:"tools"`
}

// WorktreeDirName is the directory under the repo base that holds all
// managed worktrees, grouped by repository name.
const WorktreeDirName = "_vibecoding"

// defaults returns the per-platform configuration before derived fields
// (worktree bases, ~ expansion) are filled in.
func defaults(p platform.Platform) Config {
	cfg := Config{
		SSHKey:           "~/.ssh/id_vibecoding",
		RemoteLoginShell: "zsh",
		Tools: ToolsConfig{
			Claude:   "cly",
			Codex:    "cdx",
			OpenCode: "opencode",

			ClaudeDirect:   "claude --dangerously-skip-permissions",
			CodexDirect:    "codex --dangerously-bypass-approvals-and-sandbox",
			OpenCodeDirect: "opencode",
		},
	}

	switch p {
	case platform.WSL:
		// /mnt/z is the host's Repositories share.
		cfg.RepoBase = "/mnt/z"
		cfg.RemoteRepoBase = "/mnt/z"
		cfg.SSHUserHost = "admin@172.21.0.10"
		cfg.JunkFiles = []string{"Thumbs.db", "desktop.ini"}
		// SSH lands in Windows; shell choice (WSL or PowerShell) is made at runtime.
		cfg.RemoteIsWindows = true
		cfg.DefaultRemoteShell = "wsl"
	default:
		// Aligned local/remote paths keep git metadata valid on both ends.
		cfg.RepoBase = "/Volumes/External/Repositories"
		cfg.RemoteRepoBase = "/Volumes/External/Repositories"
		cfg.SSHUserHost = "admin@vibecoding.local"
		// Needed for Xcode code signing over SSH.
		cfg.UnlockKeychain = true
		cfg.KeychainCommand = "security -v unlock-keychain -p admin ~/Library/Keychains/login.keychain-db"
		cfg.JunkFiles = []string{".DS_Store"}
	}

	return cfg
}

// Defaults returns the effective default configuration for a platform.
func Defaults(p platform.Platform) Config {
	cfg := defaults(p)
	cfg.finalize()
	return cfg
}

// finalize fills derived fields and expands ~ in the SSH key path.
func (c *Config) finalize() {
	if c.WorktreeBase == "" {
		c.WorktreeBase = filepath.Join(c.RepoBase, WorktreeDirName)
	}
	if c.RemoteWorktreeBase == "" {
		c.RemoteWorktreeBase = filepath.Join(c.RemoteRepoBase, WorktreeDirName)
	}
	if expanded, err := expandPath(c.SSHKey); err == nil {
		c.SSHKey = expanded
	}
}

// ValidatePath checks that the path is absolute or starts with ~.
// Returns an error for relative paths (like "." or "..").
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // empty means not configured
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the config file location (~/.config/vibe/config.toml).
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vibe", "config.toml"), nil
}

// Load reads the config file over the platform defaults.
// A missing file yields the defaults with no error; a present but invalid
// file is an error.
func Load(p platform.Platform) (Config, error) {
	path, err := Path()
	if err != nil {
		return Defaults(p), nil
	}
	return LoadFrom(path, p)
}

// LoadFrom reads a specific config file over the platform defaults.
func LoadFrom(path string, p platform.Platform) (Config, error) {
	cfg := defaults(p)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.finalize()
			return cfg, nil
		}
		return Defaults(p), fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Defaults(p), fmt.Errorf("failed to parse config file: %w", err)
	}

	for field, value := range map[string]string{
		"repo_base":            cfg.RepoBase,
		"remote_repo_base":     cfg.RemoteRepoBase,
		"worktree_base":        cfg.WorktreeBase,
		"remote_worktree_base": cfg.RemoteWorktreeBase,
		"ssh_key":              cfg.SSHKey,
	} {
		if err := ValidatePath(value, field); err != nil {
			return Defaults(p), err
		}
	}

	switch cfg.DefaultRemoteShell {
	case "", "wsl", "powershell":
	default:
		return Defaults(p), fmt.Errorf("invalid default_remote_shell %q: must be \"wsl\" or \"powershell\"", cfg.DefaultRemoteShell)
	}

	cfg.finalize()
	return cfg, nil
}

const defaultConfig = `# vibe configuration
#
# Everything here is optional; unset values fall back to the platform
# defaults (macOS or WSL, detected at startup).

# Where repositories live on this machine and on the remote host.
# Worktrees are created under <repo_base>/_vibecoding/<repo>/<branch>.
# repo_base = "/Volumes/External/Repositories"
# remote_repo_base = "/Volumes/External/Repositories"

# Override the derived worktree bases directly if they differ.
# worktree_base = "/Volumes/External/Repositories/_vibecoding"
# remote_worktree_base = "/Volumes/External/Repositories/_vibecoding"

# SSH connection to the remote dev host.
# ssh_key = "~/.ssh/id_vibecoding"
# ssh_user_host = "admin@vibecoding.local"

# macOS keychain unlock before starting a session (Xcode code signing).
# unlock_keychain = true
# keychain_command = "security -v unlock-keychain -p admin ~/Library/Keychains/login.keychain-db"

# Whether SSH lands in Windows (WSL/PowerShell choice at runtime) and
# which shell to use when nothing is chosen interactively.
# remote_is_windows = false
# default_remote_shell = "wsl"   # "wsl" or "powershell"

# Login shell used for POSIX and WSL sessions.
# remote_login_shell = "zsh"

# Files ignored when deciding whether a directory is empty during cleanup.
# junk_files = [".DS_Store"]

# Coding tool commands. The plain forms are wrapper scripts (POSIX/WSL);
# the *_direct forms are used under PowerShell.
# [tools]
# claude = "cly"
# codex = "cdx"
# opencode = "opencode"
# claude_direct = "claude --dangerously-skip-permissions"
# codex_direct = "codex --dangerously-bypass-approvals-and-sandbox"
# opencode_direct = "opencode"
`

// Init creates a default config file at ~/.config/vibe/config.toml.
// If force is true, an existing file is overwritten.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}

	return path, nil
}
