package styles

import (
	"path/filepath"
	"strings"
)

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconGitBranch = "\ue725"
	IconEye       = "\uf06e"
	IconComment   = "\uf075"
)

// Directory icons
var (
	IconFolderOpen   = "\ue5fe"
	IconFolderClosed = "\ue5ff"
)

// File type icons
var (
	IconFileDefault  = "\uf15b "
	IconFileGo       = "\ue627 "
	IconFileJS       = "\U000F031E "
	IconFileTS       = "\U000F06E6 "
	IconFileTSX      = IconFileTS
	IconFileJSX      = IconFileJS
	IconFilePython   = "\ue235 "
	IconFileMarkdown = "\ueb1d "
	IconFileJSON     = "\ueb0f "
	IconFileYAML     = "\ue6a8"
	IconFileTOML     = "\ue615 "
	IconFileXML      = "\U000F05C0 "
	IconFileHTML     = "\ue60e "
	IconFileCSS      = "\ue614 "
	IconFileRust     = "\ue68b "
	IconFileC        = "\ue61e "
	IconFileCPP      = "\ue646 "
	IconFileJava     = "\ue256 "
	IconFileRuby     = "\ue605 "
	IconFilePHP      = "\ue73d "
	IconFileShell    = "\uea85 "
	IconFileSQL      = IconFileDefault
	IconFileVim      = "\ue62b "
	IconFileLua      = "\ue620 "
	IconFileDocker   = "\U000F0868 "
	IconFileMakefile = "\ue673 "
	IconFileReadme   = IconFileMarkdown
)

// DirIcon returns the nerd font icon for a directory.
func DirIcon(expanded bool) string {
	if expanded {
		return IconFolderOpen
	}
	return IconFolderClosed
}

// FileIcon returns the nerd font icon for a file path.
func FileIcon(path string) string {
	switch strings.ToLower(filepath.Base(path)) {
	case "readme.md", "readme":
		return IconFileReadme
	case "dockerfile":
		return IconFileDocker
	case "makefile":
		return IconFileMakefile
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return IconFileGo
	case ".js":
		return IconFileJS
	case ".ts":
		return IconFileTS
	case ".tsx":
		return IconFileTSX
	case ".jsx":
		return IconFileJSX
	case ".py":
		return IconFilePython
	case ".md":
		return IconFileMarkdown
	case ".json":
		return IconFileJSON
	case ".yaml", ".yml":
		return IconFileYAML
	case ".toml":
		return IconFileTOML
	case ".xml":
		return IconFileXML
	case ".html", ".htm":
		return IconFileHTML
	case ".css":
		return IconFileCSS
	case ".rs":
		return IconFileRust
	case ".c", ".h":
		return IconFileC
	case ".cpp", ".cc", ".cxx", ".hpp":
		return IconFileCPP
	case ".java":
		return IconFileJava
	case ".rb":
		return IconFileRuby
	case ".php":
		return IconFilePHP
	case ".sh", ".bash", ".zsh":
		return IconFileShell
	case ".sql":
		return IconFileSQL
	case ".vim":
		return IconFileVim
	case ".lua":
		return IconFileLua
	default:
		return IconFileDefault
	}
}

// ASCIIDirIcon and ASCIIFileIcon are used when nerd font icons are disabled.
func ASCIIDirIcon(expanded bool) string {
	if expanded {
		return "▾"
	}
	return "▸"
}

func ASCIIFileIcon(string) string { return "•" }
