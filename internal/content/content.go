// Package content sanitizes and renders the HTML and Markdown that flows
// through the component kit: remote search fragments, component docs and
// catalog descriptions.
package content

var (
	// Individual transformers.
	markdownToHTML   = MarkdownToHTML()
	htmlToMarkdown   = HTMLToMarkdown()
	sanitizeHTML     = SanitizeHTML()
	sanitizeFragment = SanitizeFragmentHTML()
	extractHTMLBody  = ExtractHTMLBody()
	normalizeNBSP    = NormalizeNBSP()
	scrubHTML        = ScrubHTML()
	scrubText        = ScrubDescription()

	// Pre-composed pipelines.
	fragmentPipeline    = Chain(normalizeNBSP, extractHTMLBody, sanitizeFragment, scrubHTML)
	docsPipeline        = Chain(markdownToHTML, sanitizeHTML)
	descriptionPipeline = Chain(scrubText, markdownToHTML, sanitizeHTML)
	exportPipeline      = Chain(normalizeNBSP, extractHTMLBody, htmlToMarkdown)
)

// SanitizeFragment cleans an HTML fragment received from a remote search
// endpoint before it is spliced into a result list. Structural markup and
// the data-*, role and aria-* attributes the runtime relies on survive;
// scripts, handlers and styles do not.
func SanitizeFragment(fragment string) (string, error) {
	out, err := fragmentPipeline([]byte(fragment))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RenderDocs converts component documentation written in Markdown into
// sanitized HTML.
func RenderDocs(markdown []byte) ([]byte, error) {
	return docsPipeline(markdown)
}

// RenderDescription converts a plain-text catalog description into
// sanitized HTML.
func RenderDescription(text string) (string, error) {
	out, err := descriptionPipeline([]byte(text))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ExportMarkdown converts a rendered HTML page into Markdown.
func ExportMarkdown(page []byte) ([]byte, error) {
	return exportPipeline(page)
}
