package remote

import (
	"regexp"
	"strings"
)

// Command describes a remote session to start. Path empty means the
// session starts in the home directory; Tool empty means an interactive
// shell instead of a coding tool.
type Command struct {
	Path            string // remote path in POSIX form (/mnt/z/... on Windows remotes)
	Tool            string
	LoginShell      string // defaults to zsh
	UnlockKeychain  bool
	KeychainCommand string
}

func (c Command) shell() string {
	if c.LoginShell == "" {
		return "zsh"
	}
	return c.LoginShell
}

// Render produces the command string passed to SSH for the dialect.
func (c Command) Render(d Dialect) string {
	switch d {
	case WSL:
		return c.renderWSL()
	case PowerShell:
		return c.renderPowerShell()
	default:
		return c.renderPosix()
	}
}

// renderPosix chains setup steps with && so a failed cd never starts the
// tool in the wrong directory. TMPDIR points at a fresh directory to
// avoid permission clashes between sessions.
func (c Command) renderPosix() string {
	var steps []string
	if c.Path != "" {
		steps = append(steps, "cd "+ShellQuote(c.Path))
	}
	if c.UnlockKeychain && c.KeychainCommand != "" {
		steps = append(steps, c.KeychainCommand)
	}
	steps = append(steps, "export TMPDIR=$(mktemp -d)")

	if c.Tool != "" {
		steps = append(steps, c.shell()+" -l -i -c "+ShellQuote(c.Tool))
	} else {
		steps = append(steps, c.shell()+" -l -i")
	}
	return strings.Join(steps, " && ")
}

// renderWSL wraps the POSIX steps in `wsl -e <shell> -l -i -c "…"`.
// SSH lands in PowerShell on Windows remotes; the quoting keeps
// PowerShell from expanding $(mktemp -d) before WSL sees it. The
// keychain step never applies here.
func (c Command) renderWSL() string {
	if c.Path == "" && c.Tool == "" {
		// Plain interactive WSL session, no inner command to protect.
		return "wsl -e " + c.shell() + " -l -i"
	}

	var steps []string
	if c.Path != "" {
		steps = append(steps, "cd "+ShellQuote(c.Path))
	}
	steps = append(steps, "export TMPDIR=$(mktemp -d)")
	if c.Tool != "" {
		steps = append(steps, c.Tool)
	} else {
		steps = append(steps, "exec "+c.shell())
	}

	inner := strings.Join(steps, " && ")
	escaped := strings.ReplaceAll(inner, `"`, `\"`)
	return "wsl -e " + c.shell() + ` -l -i -c "` + escaped + `"`
}

// renderPowerShell stays in PowerShell: statements are chained with ;
// and the path is converted to drive-letter form. Paths go in single
// quotes without escaping, so a path containing a single quote produces
// a broken command; managed worktree names never contain one.
func (c Command) renderPowerShell() string {
	if c.Path == "" {
		if c.Tool != "" {
			return c.Tool
		}
		return "powershell -NoExit"
	}

	parts := []string{"cd '" + WindowsPath(c.Path) + "'"}
	if c.Tool != "" {
		parts = append(parts, c.Tool)
	} else {
		// Nested interactive PowerShell at the target directory.
		parts = append(parts, "powershell")
	}
	return strings.Join(parts, "; ")
}

// safeShellChars matches strings that need no quoting in a POSIX shell.
var safeShellChars = regexp.MustCompile(`^[a-zA-Z0-9_@%+=:,./-]+$`)

// ShellQuote quotes s for a POSIX shell. Safe strings pass through
// unchanged; everything else is single-quoted with embedded single
// quotes escaped as '"'"'.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if safeShellChars.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// WindowsPath converts a /mnt/<drive>/... path to <DRIVE>:\... form.
// Paths not under /mnt are returned unchanged.
func WindowsPath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) < 2 || parts[0] != "mnt" || parts[1] == "" || !strings.HasPrefix(path, "/") {
		return path
	}
	drive := strings.ToUpper(parts[1])
	rest := strings.Join(parts[2:], `\`)
	if rest == "" {
		return drive + `:\`
	}
	return drive + `:\` + rest
}
