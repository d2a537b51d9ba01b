// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"regexp"
	"strings"
)

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// speechRewrites run in order, each on the previous one's output. Code blocks
// go first so their punctuation never reaches the symbol strip, and links are
// unwrapped before brackets could be stripped.
var speechRewrites = []rewrite{
	// fenced code blocks
	{regexp.MustCompile("(?s)```.*?```"), " "},
	// inline code
	{regexp.MustCompile("`([^`]*)`"), "$1"},
	// headings
	{regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*`), ""},
	// bold, then italic
	{regexp.MustCompile(`\*\*(.+?)\*\*`), "$1"},
	{regexp.MustCompile(`__(.+?)__`), "$1"},
	{regexp.MustCompile(`\*([^*\n]+?)\*`), "$1"},
	{regexp.MustCompile(`\b_([^_\n]+?)_\b`), "$1"},
	// links keep their label
	{regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`), "$1"},
	// list bullets
	{regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]|\d+[.)])[ \t]+`), ""},
	// stray symbols
	{regexp.MustCompile(`[_<>#*]`), ""},
	// whitespace
	{regexp.MustCompile(`\s+`), " "},
}

// ToSpeechText strips markdown syntax from md and returns speakable text.
func ToSpeechText(md string) string {
	s := md
	for _, r := range speechRewrites {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return strings.TrimSpace(s)
}
