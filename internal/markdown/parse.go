// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// =============================================================================
// BLOCK TYPES
// =============================================================================

// BlockKind identifies a block-level element.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockList
	BlockRule
	BlockCode
	BlockQuote
)

// Block is one block-level render instruction.
type Block struct {
	Kind BlockKind

	// Heading level 1-6
	Level int

	// Heading and paragraph content
	Spans []Span

	// List fields. Each item holds its own nested blocks.
	Ordered bool
	Start   int
	Items   [][]Block

	// Code block fields. Lang is empty when the fence had no info string.
	Lang string
	Code string

	// Blockquote content
	Children []Block
}

// Style is a bitmask of inline formatting.
type Style uint8

const (
	StyleStrong Style = 1 << iota
	StyleEmphasis
	StyleCode
	StyleStrike
	StyleLink
)

// Has reports whether all bits of f are set.
func (s Style) Has(f Style) bool { return s&f == f }

// Span is a run of inline text with uniform style.
type Span struct {
	Text  string
	Style Style
	URL   string // set when Style has StyleLink
}

// =============================================================================
// PARSING
// =============================================================================

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse converts markdown source into render blocks.
func Parse(src string) []Block {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))
	w := walker{src: source}
	return w.blocks(doc)
}

// CodeBlocks returns every code block in src, including ones nested in lists
// and quotes, in document order.
func CodeBlocks(src string) []Block {
	var out []Block
	var collect func([]Block)
	collect = func(bs []Block) {
		for _, b := range bs {
			switch b.Kind {
			case BlockCode:
				out = append(out, b)
			case BlockList:
				for _, item := range b.Items {
					collect(item)
				}
			case BlockQuote:
				collect(b.Children)
			}
		}
	}
	collect(Parse(src))
	return out
}

type walker struct {
	src []byte
}

func (w walker) blocks(parent ast.Node) []Block {
	var out []Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b, ok := w.block(n); ok {
			out = append(out, b)
		}
	}
	return out
}

func (w walker) block(n ast.Node) (Block, bool) {
	switch n := n.(type) {
	case *ast.Heading:
		return Block{Kind: BlockHeading, Level: n.Level, Spans: w.spans(n)}, true

	case *ast.Paragraph, *ast.TextBlock:
		return Block{Kind: BlockParagraph, Spans: w.spans(n)}, true

	case *ast.ThematicBreak:
		return Block{Kind: BlockRule}, true

	case *ast.FencedCodeBlock:
		return Block{Kind: BlockCode, Lang: string(n.Language(w.src)), Code: w.lines(n)}, true

	case *ast.CodeBlock:
		return Block{Kind: BlockCode, Code: w.lines(n)}, true

	case *ast.Blockquote:
		return Block{Kind: BlockQuote, Children: w.blocks(n)}, true

	case *ast.List:
		b := Block{Kind: BlockList, Ordered: n.IsOrdered(), Start: n.Start}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			b.Items = append(b.Items, w.blocks(item))
		}
		return b, true

	case *ast.HTMLBlock:
		raw := strings.TrimSpace(w.lines(n))
		if raw == "" {
			return Block{}, false
		}
		return Block{Kind: BlockParagraph, Spans: []Span{{Text: raw}}}, true

	default:
		// Tables and other extension blocks degrade to their plain text.
		if t := strings.TrimSpace(w.plain(n)); t != "" {
			return Block{Kind: BlockParagraph, Spans: []Span{{Text: t}}}, true
		}
		return Block{}, false
	}
}

func (w walker) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(w.src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// spans flattens the inline children of n.
func (w walker) spans(n ast.Node) []Span {
	var out []Span
	w.inline(n, 0, "", &out)
	return mergeSpans(out)
}

func (w walker) inline(parent ast.Node, style Style, url string, out *[]Span) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Text:
			*out = append(*out, Span{Text: string(n.Segment.Value(w.src)), Style: style, URL: url})
			if n.HardLineBreak() || n.SoftLineBreak() {
				*out = append(*out, Span{Text: "\n", Style: style, URL: url})
			}

		case *ast.String:
			*out = append(*out, Span{Text: string(n.Value), Style: style, URL: url})

		case *ast.CodeSpan:
			*out = append(*out, Span{Text: w.plain(n), Style: style | StyleCode, URL: url})

		case *ast.Emphasis:
			s := StyleEmphasis
			if n.Level >= 2 {
				s = StyleStrong
			}
			w.inline(n, style|s, url, out)

		case *east.Strikethrough:
			w.inline(n, style|StyleStrike, url, out)

		case *ast.Link:
			w.inline(n, style|StyleLink, string(n.Destination), out)

		case *ast.AutoLink:
			dest := string(n.URL(w.src))
			*out = append(*out, Span{Text: string(n.Label(w.src)), Style: style | StyleLink, URL: dest})

		case *ast.Image:
			alt := w.plain(n)
			if alt == "" {
				alt = "image"
			}
			*out = append(*out, Span{Text: "[" + alt + "]", Style: style | StyleLink, URL: string(n.Destination)})

		case *ast.RawHTML:
			// dropped

		default:
			w.inline(n, style, url, out)
		}
	}
}

// plain returns the concatenated text of n's descendants.
func (w walker) plain(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(w.src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// mergeSpans joins neighbours with identical style and target.
func mergeSpans(in []Span) []Span {
	var out []Span
	for _, s := range in {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == s.Style && out[n-1].URL == s.URL {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}
