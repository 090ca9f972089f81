// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func markdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))
	})
	return markdownParserInstance
}

// MarkdownOptions controls RenderMarkdown.
type MarkdownOptions struct {
	// Width is the wrap width in columns. Values below 10 are raised
	// to 10.
	Width int

	// HardWraps keeps single newlines as line breaks instead of
	// reflowing them into spaces. Catalog strings are written with
	// deliberate line breaks, so dialogs set this.
	HardWraps bool

	// Foreground and Background color plain text. Zero values leave
	// the terminal defaults.
	Foreground lipgloss.Color
	Background lipgloss.Color
}

// RenderMarkdown renders a small markdown document (paragraphs,
// emphasis, code, lists, links) as styled terminal text wrapped to
// options.Width.
func RenderMarkdown(input string, theme Theme, options MarkdownOptions) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := markdownParser().Parser().Parse(text.NewReader(source))

	// Force the ANSI256 profile: output always goes to the bubbletea
	// view, and auto-detection would strip color when stderr is not a
	// terminal (tests, pipes).
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	width := options.Width
	if width < 10 {
		width = 10
	}
	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		options:     options,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)
	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks a goldmark AST and accumulates inline
// content per block, wrapping each block when it closes.
type markdownRenderer struct {
	source      []byte
	theme       Theme
	options     MarkdownOptions
	width       int
	lipRenderer *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder

	linePrefix    string
	prefixWidth   int
	pendingBullet string

	boldCount          int
	italicCount        int
	strikethroughCount int

	lists []listState

	trailingNewlines int
}

type listState struct {
	ordered bool
	counter int
	tight   bool
}

func (renderer *markdownRenderer) baseStyle() lipgloss.Style {
	style := renderer.lipRenderer.NewStyle()
	if renderer.options.Foreground != "" {
		style = style.Foreground(renderer.options.Foreground)
	} else {
		style = style.Foreground(renderer.theme.NormalText)
	}
	if renderer.options.Background != "" {
		style = style.Background(renderer.options.Background)
	}
	return style
}

func (renderer *markdownRenderer) faintStyle() lipgloss.Style {
	return renderer.baseStyle().Foreground(renderer.theme.FaintText)
}

func (renderer *markdownRenderer) writeOutput(content string) {
	if content == "" {
		return
	}
	renderer.output.WriteString(content)
	trimmed := strings.TrimRight(content, "\n")
	trailing := len(content) - len(trimmed)
	if trimmed == "" {
		renderer.trailingNewlines += trailing
	} else {
		renderer.trailingNewlines = trailing
	}
}

func (renderer *markdownRenderer) ensureNewline() {
	if renderer.output.Len() > 0 && renderer.trailingNewlines < 1 {
		renderer.writeOutput("\n")
	}
}

func (renderer *markdownRenderer) ensureBlankLine() {
	if renderer.output.Len() == 0 {
		return
	}
	for renderer.trailingNewlines < 2 {
		renderer.writeOutput("\n")
	}
}

func (renderer *markdownRenderer) inTightList() bool {
	return len(renderer.lists) > 0 && renderer.lists[len(renderer.lists)-1].tight
}

// applyPrefixes puts the pending bullet (or the nesting prefix) before
// the first line and the nesting prefix before every other line.
func (renderer *markdownRenderer) applyPrefixes(content string) string {
	lines := strings.Split(content, "\n")
	for index, line := range lines {
		prefix := renderer.linePrefix
		if index == 0 && renderer.pendingBullet != "" {
			prefix = renderer.pendingBullet
			renderer.pendingBullet = ""
		}
		lines[index] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (renderer *markdownRenderer) flushInline() string {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return ""
	}
	available := max(renderer.width-renderer.prefixWidth, 10)
	// Lines never exceed available: words wrap at whitespace, and a
	// word wider than the line is split.
	wrapped := ansi.Wrap(content, available, "")
	return renderer.applyPrefixes(ansi.Hardwrap(wrapped, available, true))
}

func (renderer *markdownRenderer) styledText(content string) string {
	style := renderer.baseStyle()
	if renderer.boldCount > 0 {
		style = style.Bold(true)
	}
	if renderer.italicCount > 0 {
		style = style.Italic(true)
	}
	if renderer.strikethroughCount > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

func (renderer *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			renderer.inline.Reset()
			return ast.WalkContinue, nil
		}
		if flushed := renderer.flushInline(); flushed != "" {
			renderer.writeOutput(flushed)
			renderer.ensureNewline()
			if !renderer.inTightList() {
				renderer.ensureBlankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			renderer.inline.Reset()
			return ast.WalkContinue, nil
		}
		content := ansi.Strip(renderer.inline.String())
		renderer.inline.Reset()
		style := renderer.baseStyle().Bold(true).Foreground(renderer.theme.HeaderForeground)
		renderer.ensureBlankLine()
		renderer.writeOutput(renderer.applyPrefixes(style.Render(content)))
		renderer.ensureNewline()
		renderer.ensureBlankLine()

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			renderer.renderCode(node)
		}
		return ast.WalkSkipChildren, nil

	case ast.KindList:
		list := node.(*ast.List)
		if entering {
			renderer.lists = append(renderer.lists, listState{ordered: list.IsOrdered(), counter: list.Start, tight: list.IsTight})
		} else {
			renderer.lists = renderer.lists[:len(renderer.lists)-1]
			if !renderer.inTightList() {
				renderer.ensureBlankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			renderer.enterListItem()
		} else {
			renderer.linePrefix = renderer.linePrefix[:len(renderer.linePrefix)-2]
			renderer.prefixWidth -= 2
			renderer.ensureNewline()
		}

	case ast.KindText:
		if entering {
			renderer.handleText(node.(*ast.Text))
		}

	case ast.KindString:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		emphasis := node.(*ast.Emphasis)
		delta := 1
		if !entering {
			delta = -1
		}
		if emphasis.Level >= 2 {
			renderer.boldCount += delta
		} else {
			renderer.italicCount += delta
		}

	case extast.KindStrikethrough:
		if entering {
			renderer.strikethroughCount++
		} else {
			renderer.strikethroughCount--
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(renderer.source))
				}
			}
			renderer.inline.WriteString(renderer.faintStyle().Render(code.String()))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindLink:
		if entering {
			link := node.(*ast.Link)
			for child := link.FirstChild(); child != nil; child = child.NextSibling() {
				ast.Walk(child, renderer.walk)
			}
			if destination := string(link.Destination); destination != "" {
				renderer.inline.WriteString(renderer.faintStyle().Render(" (" + destination + ")"))
			}
		}
		return ast.WalkSkipChildren, nil

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(renderer.source))
			renderer.inline.WriteString(renderer.faintStyle().Render(url))
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (renderer *markdownRenderer) handleText(node *ast.Text) {
	renderer.inline.WriteString(renderer.styledText(string(node.Segment.Value(renderer.source))))
	switch {
	case node.HardLineBreak():
		renderer.inline.WriteString("\n")
	case node.SoftLineBreak() && renderer.options.HardWraps:
		renderer.inline.WriteString("\n")
	case node.SoftLineBreak():
		renderer.inline.WriteString(" ")
	}
}

func (renderer *markdownRenderer) enterListItem() {
	top := &renderer.lists[len(renderer.lists)-1]
	bullet := "• "
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.counter)
		top.counter++
	}
	renderer.pendingBullet = renderer.linePrefix + bullet
	renderer.linePrefix += "  "
	renderer.prefixWidth += 2
}

// renderCode writes a code block, highlighted with chroma when the
// fence names a language chroma knows.
func (renderer *markdownRenderer) renderCode(node ast.Node) {
	var code strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(renderer.source))
	}

	var language string
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		language = string(fenced.Language(renderer.source))
	}
	rendered := renderer.faintStyle().Render(strings.TrimRight(code.String(), "\n"))
	if language != "" {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, code.String(), language, "terminal256", "monokai"); err == nil {
			rendered = strings.TrimRight(buffer.String(), "\n")
		}
	}

	renderer.ensureBlankLine()
	for _, line := range strings.Split(rendered, "\n") {
		renderer.writeOutput(renderer.linePrefix + "  " + line)
		renderer.writeOutput("\n")
	}
	renderer.ensureBlankLine()
}
