// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cosmos-tui/internal/ui/styles"
)

// DefaultLanguage labels fences that carry no info string.
const DefaultLanguage = "javascript"

// =============================================================================
// TOKEN CLASSIFICATION
// =============================================================================

// TokenClass is the coarse highlight class of a code token.
type TokenClass int

const (
	ClassPlain TokenClass = iota
	ClassKeyword
	ClassString
	ClassComment
	ClassNumber
)

func (c TokenClass) String() string {
	switch c {
	case ClassKeyword:
		return "keyword"
	case ClassString:
		return "string"
	case ClassComment:
		return "comment"
	case ClassNumber:
		return "number"
	default:
		return "plain"
	}
}

// Token is a run of code text in one class.
type Token struct {
	Class TokenClass
	Text  string
}

// Classify splits code into keyword, string, comment and number runs using
// the chroma lexer for lang. Unknown languages are lexed as JavaScript. This
// is a highlighting aid, not a parser: unusual syntax may land in ClassPlain.
func Classify(code, lang string) []Token {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Get(DefaultLanguage)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return []Token{{Class: ClassPlain, Text: code}}
	}

	var out []Token
	for _, tok := range it.Tokens() {
		class := classOf(tok.Type)
		if n := len(out); n > 0 && out[n-1].Class == class {
			out[n-1].Text += tok.Value
			continue
		}
		out = append(out, Token{Class: class, Text: tok.Value})
	}
	return out
}

func classOf(t chroma.TokenType) TokenClass {
	switch {
	case t.InCategory(chroma.Keyword):
		return ClassKeyword
	case t.InCategory(chroma.Comment):
		return ClassComment
	case t.InSubCategory(chroma.LiteralString):
		return ClassString
	case t.InSubCategory(chroma.LiteralNumber):
		return ClassNumber
	default:
		return ClassPlain
	}
}

// =============================================================================
// COPY STATE
// =============================================================================

// CopyResetDelay is how long the "Copied!" acknowledgement stays visible.
const CopyResetDelay = 2 * time.Second

// CopyResetMsg reverts a copy button after CopyResetDelay.
type CopyResetMsg struct {
	Seq int
}

// CopyButton tracks which code block was copied most recently and whether
// its acknowledgement is still showing. A newer copy supersedes the pending
// reset of an older one.
type CopyButton struct {
	// Write replaces the system clipboard when set.
	Write func(string) error

	target string
	copied bool
	seq    int
}

// Copy writes code to the clipboard and marks target as copied. The returned
// command delivers the CopyResetMsg that clears the state.
func (b *CopyButton) Copy(target, code string) (tea.Cmd, error) {
	write := b.Write
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(code); err != nil {
		return nil, err
	}
	b.seq++
	b.target = target
	b.copied = true

	seq := b.seq
	return tea.Tick(CopyResetDelay, func(time.Time) tea.Msg {
		return CopyResetMsg{Seq: seq}
	}), nil
}

// Reset handles a CopyResetMsg. Stale resets are ignored.
func (b *CopyButton) Reset(msg CopyResetMsg) {
	if msg.Seq == b.seq {
		b.copied = false
	}
}

// CopiedFor reports whether target is showing the acknowledgement.
func (b CopyButton) CopiedFor(target string) bool {
	return b.copied && b.target == target
}

// Active returns the target currently showing the acknowledgement, or ""
// when none is.
func (b CopyButton) Active() string {
	if !b.copied {
		return ""
	}
	return b.target
}

// Label returns the button text for target.
func (b CopyButton) Label(target string) string {
	if b.CopiedFor(target) {
		return "Copied!"
	}
	return "Copy"
}

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock represents a code block ready to render.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
	Copied   bool
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
	}
}

// Lang returns the language label, defaulting to JavaScript.
func (c CodeBlock) Lang() string {
	if strings.TrimSpace(c.Language) == "" {
		return DefaultLanguage
	}
	return c.Language
}

// Render draws the block with a language tag, copy label and line numbers.
func (c CodeBlock) Render(theme *styles.Theme) string {
	header := theme.CodeLangTag.Render(c.Lang())
	copyLabel := theme.CodeCopy.Render("Copy (ctrl+y)")
	if c.Copied {
		copyLabel = theme.CodeCopied.Render("Copied!")
	}

	var lines []string
	var current strings.Builder
	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
	}
	for _, tok := range Classify(c.Code, c.Lang()) {
		style := tokenStyle(theme, tok.Class)
		parts := strings.Split(tok.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				flush()
			}
			if part != "" {
				current.WriteString(style.Render(part))
			}
		}
	}
	flush()
	// Lexers emit a trailing newline.
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	numbered := make([]string, len(lines))
	for i, line := range lines {
		numbered[i] = theme.CodeLineNum.Render(strconv.Itoa(i+1)) + line
	}

	maxWidth := c.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", copyLabel)
	return theme.CodeBlock.
		MaxWidth(maxWidth).
		Render(top + "\n" + strings.Join(numbered, "\n"))
}

func tokenStyle(theme *styles.Theme, class TokenClass) lipgloss.Style {
	switch class {
	case ClassKeyword:
		return theme.CodeKeyword
	case ClassString:
		return theme.CodeString
	case ClassComment:
		return theme.CodeComment
	case ClassNumber:
		return theme.CodeNumber
	default:
		return theme.CodeDefault
	}
}
