package utils

import "strings"

// TruncatePath shortens a slash separated path to at most maxLen bytes by
// abbreviating leading directories to their first character, starting from
// the outermost one. If that is not enough the file name is cut and an
// ellipsis appended.
//
//	TruncatePath("alpha/beta/gamma/config.go", 20) // "a/b/gamma/config.go"
func TruncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}

	parts := strings.Split(path, "/")
	if len(parts) == 1 {
		return cutWithEllipsis(path, maxLen)
	}

	name := parts[len(parts)-1]
	dirs := parts[:len(parts)-1]

	for abbreviated := 0; abbreviated <= len(dirs); abbreviated++ {
		out := make([]string, 0, len(parts))
		for i, d := range dirs {
			if i < abbreviated {
				out = append(out, firstRune(d))
			} else {
				out = append(out, d)
			}
		}
		out = append(out, name)

		if joined := strings.Join(out, "/"); len(joined) <= maxLen {
			return joined
		}
	}

	var prefix strings.Builder
	for _, d := range dirs {
		if r := firstRune(d); r != "" {
			prefix.WriteString(r)
			prefix.WriteByte('/')
		}
	}

	remaining := maxLen - prefix.Len()
	if remaining > 3 && len(name) > remaining {
		return prefix.String() + cutWithEllipsis(name, remaining)
	}
	return prefix.String() + name
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// cutWithEllipsis trims s so that the result including "..." fits in n bytes,
// never splitting a multi-byte rune.
func cutWithEllipsis(s string, n int) string {
	limit := max(n-3, 0)
	end := 0
	for i, r := range s {
		size := len(string(r))
		if i+size > limit {
			break
		}
		end = i + size
	}
	return s[:end] + "..."
}
