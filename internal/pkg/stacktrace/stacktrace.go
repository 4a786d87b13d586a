// Package stacktrace condenses raw goroutine stacks for structured logs.
package stacktrace

import "strings"

// InternalPaths extracts the repo-internal frames from a raw stack trace,
// trimmed to internal/...file.go:line so log lines stay short.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines))

	// Frame locations sit on the line after the function name.
	for i := 1; i < len(lines); i++ {
		if frame, ok := internalFrame(strings.TrimSpace(lines[i])); ok {
			paths = append(paths, frame)
		}
	}
	return paths
}

func internalFrame(line string) (string, bool) {
	idx := strings.Index(line, ".go:")
	if idx == -1 || !strings.Contains(line, "/internal/") {
		return "", false
	}

	end := strings.Index(line[idx:], " ")
	if end == -1 {
		end = len(line)
	} else {
		end += idx
	}

	path := line[:end]
	start := strings.Index(path, "/internal/")
	if start == -1 {
		return "", false
	}
	return path[start+1:], true
}
