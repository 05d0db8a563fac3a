package html

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var (
	markdownOnce sync.Once
	markdownMD   goldmark.Markdown

	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Markdown converts a markdown body to sanitised HTML. Raw HTML in the body
// is dropped by the sanitiser rather than passed through.
func Markdown(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownEngine().Convert([]byte(trimmed), &buf); err != nil {
		return "", fmt.Errorf("html: convert markdown: %w", err)
	}
	return Sanitize(buf.String()), nil
}

// Sanitize strips markup not allowed in user content.
func Sanitize(raw string) string {
	return strings.TrimSpace(markupSanitizer().Sanitize(raw))
}

func markdownEngine() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownMD = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		)
	})
	return markdownMD
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code")
		policy.AllowAttrs("type", "checked", "disabled").OnElements("input")
		policy.AllowElements("input")
		markupPolicy = policy
	})
	return markupPolicy
}
