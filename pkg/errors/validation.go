package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateFilePath validates a local file path given on the command line.
//
// Unlike repository paths, absolute paths are allowed. The rules reject only
// values that cannot name a real file:
//   - No empty paths
//   - No null bytes or control characters
//   - Maximum length of 4096 characters
func ValidateFilePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// patternRegex matches a comma-separated list of directed attribute edges,
// e.g. "0-1,0-2,1-2". Whitespace around items is allowed.
var patternRegex = regexp.MustCompile(`^\s*\d+\s*-\s*\d+\s*(,\s*\d+\s*-\s*\d+\s*)*$`)

// ValidatePatternSyntax checks the surface syntax of a motif pattern.
// Semantic checks (connectivity, self loops) are done by the motif package.
func ValidatePatternSyntax(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return New(ErrCodeInvalidPattern, "pattern cannot be empty")
	}
	if !patternRegex.MatchString(pattern) {
		return New(ErrCodeInvalidPattern, "pattern must look like \"0-1,0-2,1-2\": %q", pattern)
	}
	return nil
}

// hostRegex matches host:port addresses as found in a hosts file.
var hostRegex = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9.-]*[A-Za-z0-9])?:\d{1,5}$`)

// ValidateHostAddress validates a single host:port entry.
func ValidateHostAddress(addr string) error {
	if !hostRegex.MatchString(addr) {
		return New(ErrCodeInvalidInput, "invalid host address: %q (want host:port)", addr)
	}
	return nil
}

// ValidateWorkerCount validates a per-process worker count.
func ValidateWorkerCount(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidInput, "worker count must be at least 1, got %d", n)
	}
	const maxWorkers = 4096
	if n > maxWorkers {
		return New(ErrCodeInvalidInput, "worker count too large (max %d), got %d", maxWorkers, n)
	}
	return nil
}
