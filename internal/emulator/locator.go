// Package emulator locates the QEMU emulator binary on the host.
package emulator

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultBinary is the binary name resolved through the system lookup when
// none of the candidate paths match.
const DefaultBinary = "qemu-system-x86_64"

// LookupFunc resolves a binary name via the host's executable search
// mechanism. In production this is exec.LookPath; tests inject their own.
type LookupFunc func(name string) (string, error)

// NotFoundError reports that no emulator binary could be located.
type NotFoundError struct {
	Candidates []string
	Binary     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("emulator binary not found: tried %s and %q via system lookup",
		strings.Join(e.Candidates, ", "), e.Binary)
}

// DefaultCandidates returns the fixed probe list, most specific first.
func DefaultCandidates() []string {
	return []string{
		"/opt/homebrew/bin/qemu-system-x86_64", // Homebrew (Apple Silicon)
		"/usr/local/bin/qemu-system-x86_64",    // Homebrew (Intel Mac)
		"/usr/bin/qemu-system-x86_64",          // Linux standard
	}
}

// Find returns the first candidate path that is an existing, executable
// regular file. If none match it falls back to resolving DefaultBinary via
// lookPath. Deterministic given the same filesystem state; reads only.
func Find(candidates []string, lookPath LookupFunc) (string, error) {
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if info.Mode().Perm()&0o111 == 0 {
			continue
		}
		return path, nil
	}

	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if resolved, err := lookPath(DefaultBinary); err == nil {
		if trimmed := strings.TrimSpace(resolved); trimmed != "" {
			return trimmed, nil
		}
	}

	return "", &NotFoundError{Candidates: candidates, Binary: DefaultBinary}
}
