package remote

import (
	"strings"
	"testing"
)

func TestRenderPosix(t *testing.T) {
	t.Parallel()

	cmd := Command{
		Path:            "/Volumes/External/Repositories/_vibecoding/myrepo/feature",
		Tool:            "cly",
		UnlockKeychain:  true,
		KeychainCommand: "security -v unlock-keychain -p admin ~/Library/Keychains/login.keychain-db",
	}

	want := "cd /Volumes/External/Repositories/_vibecoding/myrepo/feature" +
		" && security -v unlock-keychain -p admin ~/Library/Keychains/login.keychain-db" +
		" && export TMPDIR=$(mktemp -d)" +
		" && zsh -l -i -c cly"
	if got := cmd.Render(Posix); got != want {
		t.Errorf("Render(Posix) =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderPosixShellOnly(t *testing.T) {
	t.Parallel()

	cmd := Command{Path: "/repos/_vibecoding/r/b"}

	want := "cd /repos/_vibecoding/r/b && export TMPDIR=$(mktemp -d) && zsh -l -i"
	if got := cmd.Render(Posix); got != want {
		t.Errorf("Render(Posix) = %q, want %q", got, want)
	}
}

func TestRenderPosixQuotesPath(t *testing.T) {
	t.Parallel()

	cmd := Command{Path: "/repos/my repo/b", Tool: "cly"}

	got := cmd.Render(Posix)
	if !strings.HasPrefix(got, "cd '/repos/my repo/b' && ") {
		t.Errorf("path not quoted: %q", got)
	}
}

func TestRenderPosixHome(t *testing.T) {
	t.Parallel()

	cmd := Command{
		UnlockKeychain:  true,
		KeychainCommand: "security -v unlock-keychain",
	}

	want := "security -v unlock-keychain && export TMPDIR=$(mktemp -d) && zsh -l -i"
	if got := cmd.Render(Posix); got != want {
		t.Errorf("Render(Posix) = %q, want %q", got, want)
	}
}

func TestRenderWSL(t *testing.T) {
	t.Parallel()

	cmd := Command{Path: "/mnt/z/_vibecoding/repo/br", Tool: "cly"}

	want := `wsl -e zsh -l -i -c "cd /mnt/z/_vibecoding/repo/br && export TMPDIR=$(mktemp -d) && cly"`
	if got := cmd.Render(WSL); got != want {
		t.Errorf("Render(WSL) =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderWSLShellOnly(t *testing.T) {
	t.Parallel()

	cmd := Command{Path: "/mnt/z/_vibecoding/repo/br"}

	want := `wsl -e zsh -l -i -c "cd /mnt/z/_vibecoding/repo/br && export TMPDIR=$(mktemp -d) && exec zsh"`
	if got := cmd.Render(WSL); got != want {
		t.Errorf("Render(WSL) = %q, want %q", got, want)
	}
}

func TestRenderWSLEscapesInnerQuotes(t *testing.T) {
	t.Parallel()

	cmd := Command{Path: "/mnt/z/r/b", Tool: `echo "hi"`}

	got := cmd.Render(WSL)
	if !strings.Contains(got, `echo \"hi\"`) {
		t.Errorf("inner quotes not escaped: %q", got)
	}
	if !strings.HasPrefix(got, `wsl -e zsh -l -i -c "`) || !strings.HasSuffix(got, `"`) {
		t.Errorf("missing double-quote wrapping: %q", got)
	}
}

func TestRenderWSLHome(t *testing.T) {
	t.Parallel()

	cmd := Command{}
	if got := cmd.Render(WSL); got != "wsl -e zsh -l -i" {
		t.Errorf("Render(WSL) = %q", got)
	}
}

func TestRenderWSLNeverUnlocksKeychain(t *testing.T) {
	t.Parallel()

	cmd := Command{Path: "/mnt/z/r/b", UnlockKeychain: true, KeychainCommand: "security whatever"}
	if got := cmd.Render(WSL); strings.Contains(got, "security") {
		t.Errorf("keychain step leaked into WSL command: %q", got)
	}
}

func TestRenderWSLCustomShell(t *testing.T) {
	t.Parallel()

	cmd := Command{Path: "/mnt/z/r/b", Tool: "cdx", LoginShell: "bash"}
	got := cmd.Render(WSL)
	if !strings.HasPrefix(got, `wsl -e bash -l -i -c "`) {
		t.Errorf("Render(WSL) = %q", got)
	}
}

func TestRenderPowerShell(t *testing.T) {
	t.Parallel()

	cmd := Command{Path: "/mnt/z/_vibecoding/repo/br", Tool: "claude --dangerously-skip-permissions"}

	want := `cd 'Z:\_vibecoding\repo\br'; claude --dangerously-skip-permissions`
	if got := cmd.Render(PowerShell); got != want {
		t.Errorf("Render(PowerShell) = %q, want %q", got, want)
	}
}

func TestRenderPowerShellShellOnly(t *testing.T) {
	t.Parallel()

	cmd := Command{Path: "/mnt/z/_vibecoding/repo/br"}

	want := `cd 'Z:\_vibecoding\repo\br'; powershell`
	if got := cmd.Render(PowerShell); got != want {
		t.Errorf("Render(PowerShell) = %q, want %q", got, want)
	}
}

func TestRenderPowerShellHome(t *testing.T) {
	t.Parallel()

	if got := (Command{}).Render(PowerShell); got != "powershell -NoExit" {
		t.Errorf("Render(PowerShell) = %q", got)
	}
	if got := (Command{Tool: "opencode"}).Render(PowerShell); got != "opencode" {
		t.Errorf("Render(PowerShell) with tool = %q", got)
	}
}

func TestShellQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"simple", "simple"},
		{"/mnt/z/_vibecoding/repo", "/mnt/z/_vibecoding/repo"},
		{"has space", "'has space'"},
		{"it's", `'it'"'"'s'`},
		{"a$(b)", "'a$(b)'"},
	}
	for _, tt := range tests {
		if got := ShellQuote(tt.in); got != tt.want {
			t.Errorf("ShellQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWindowsPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"/mnt/z/_vibecoding/repo/branch", `Z:\_vibecoding\repo\branch`},
		{"/mnt/c/Users/admin", `C:\Users\admin`},
		{"/mnt/z", `Z:\`},
		{"/Volumes/External/Repositories", "/Volumes/External/Repositories"},
		{"relative/path", "relative/path"},
	}
	for _, tt := range tests {
		if got := WindowsPath(tt.in); got != tt.want {
			t.Errorf("WindowsPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDialect(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Dialect{"": Posix, "posix": Posix, "wsl": WSL, "powershell": PowerShell} {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDialect("cmd"); err == nil {
		t.Error("expected error for unknown dialect")
	}
}
