package content

import (
	"bytes"
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// MarkdownToHTML converts CommonMark with GitHub extensions into HTML. The
// output is not sanitized.
func MarkdownToHTML() TransformerFunc {
	markdown := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	return func(input []byte) ([]byte, error) {
		output := &bytes.Buffer{}
		if err := markdown.Convert(input, output); err != nil {
			return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
		}
		return output.Bytes(), nil
	}
}

// HTMLToMarkdown converts HTML into CommonMark, keeping tables.
func HTMLToMarkdown() TransformerFunc {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithCodeBlockFence("```"),
			),
			table.NewTablePlugin(),
		),
	)

	return func(input []byte) ([]byte, error) {
		out, err := conv.ConvertReader(bytes.NewReader(input))
		if err != nil {
			return nil, fmt.Errorf("failed to convert HTML to markdown: %w", err)
		}
		return out, nil
	}
}
