// Package remote builds the command strings that start development
// sessions on the remote host, and runs them over SSH (or locally).
//
// Three remote shell dialects exist: a POSIX shell reached directly
// (macOS remotes), WSL entered through the Windows SSH landing shell,
// and PowerShell itself.
package remote

import "fmt"

// Dialect selects how commands are phrased for the remote shell.
type Dialect int

const (
	// Posix targets a remote where SSH lands directly in a POSIX shell.
	Posix Dialect = iota
	// WSL targets a Windows remote, entering WSL via `wsl -e`.
	WSL
	// PowerShell targets a Windows remote staying in PowerShell.
	PowerShell
)

func (d Dialect) String() string {
	switch d {
	case WSL:
		return "wsl"
	case PowerShell:
		return "powershell"
	default:
		return "posix"
	}
}

// ParseDialect maps a config value to a Dialect. The empty string means
// the remote is POSIX.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "", "posix":
		return Posix, nil
	case "wsl":
		return WSL, nil
	case "powershell":
		return PowerShell, nil
	default:
		return Posix, fmt.Errorf("unknown remote shell %q", s)
	}
}
