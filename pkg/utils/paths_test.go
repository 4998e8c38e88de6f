package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		maxLen int
		want   string
	}{
		{name: "fits", path: "src/main.go", maxLen: 30, want: "src/main.go"},
		{name: "abbreviates outer dirs first", path: "alpha/beta/gamma/config.go", maxLen: 20, want: "a/b/gamma/config.go"},
		{name: "abbreviates all dirs", path: "alpha/beta/gamma/config.go", maxLen: 15, want: "a/b/g/config.go"},
		{name: "cuts file name", path: "alpha/beta/a_very_long_file_name.go", maxLen: 16, want: "a/b/a_very_lo..."},
		{name: "single component", path: "averyveryverylongname.txt", maxLen: 10, want: "averyve..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncatePath(tt.path, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), tt.maxLen)
		})
	}
}
