package content

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// ExtractHTMLBody reduces a full HTML document to the contents of its body.
// Input without a body tag is returned unchanged.
func ExtractHTMLBody() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		if !bytes.Contains(bytes.ToLower(input), []byte("<body")) {
			return input, nil
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML document: %w", err)
		}
		inner, err := doc.Find("body").Html()
		if err != nil {
			return nil, fmt.Errorf("failed to extract HTML body: %w", err)
		}
		return []byte(inner), nil
	}
}

// nbspPattern matches the &nbsp; entity in any case and the raw U+00A0
// character.
var nbspPattern = regexp.MustCompile("(?i)&nbsp;|\xc2\xa0")

// NormalizeNBSP replaces non-breaking spaces with regular spaces so that
// fuzzy matching sees ordinary word boundaries.
func NormalizeNBSP() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		return nbspPattern.ReplaceAll(input, []byte{' '}), nil
	}
}

// SanitizeHTML sanitizes rendered documentation.
func SanitizeHTML() TransformerFunc {
	policy := docsPolicy()
	return func(input []byte) ([]byte, error) {
		return policy.SanitizeBytes(input), nil
	}
}

// SanitizeFragmentHTML sanitizes remote search result fragments.
func SanitizeFragmentHTML() TransformerFunc {
	policy := fragmentPolicy()
	return func(input []byte) ([]byte, error) {
		return policy.SanitizeBytes(input), nil
	}
}

var (
	// languageClass matches the class goldmark puts on fenced code blocks.
	languageClass = regexp.MustCompile(`^language-[\w+-]+$`)

	// ariaAttrs are the ARIA attributes allowed on result fragments.
	ariaAttrs = []string{
		"aria-label", "aria-labelledby", "aria-describedby", "aria-disabled",
		"aria-selected", "aria-hidden", "aria-keyshortcuts",
	}

	// roleValue limits role to the ones meaningful inside a listbox.
	roleValue = regexp.MustCompile(`^(option|group|presentation|none|separator|img)$`)
)

// docsPolicy is [bluemonday.UGCPolicy] without images, plus the code block
// language class goldmark emits.
func docsPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoReferrerOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.AllowAttrs("class").Matching(languageClass).OnElements("code")
	policy.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).
		OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return policy
}

// fragmentPolicy allows the inline and structural elements a search result
// is made of, along with the attributes the runtime reads.
func fragmentPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()

	policy.AllowDataAttributes()
	policy.AllowAttrs("id", "title", "class").Globally()
	policy.AllowAttrs(ariaAttrs...).Globally()
	policy.AllowAttrs("role").Matching(roleValue).Globally()

	policy.AllowElements(
		"abbr", "b", "br", "code", "div", "em", "i", "kbd", "li", "mark",
		"p", "s", "small", "span", "strong", "sub", "sup", "u", "ul",
	)

	policy.AllowStandardURLs()
	policy.RequireNoReferrerOnLinks(true)
	policy.AllowAttrs("href").OnElements("a")

	return policy
}

// ScrubHTML removes inline elements left empty by sanitization and
// collapses runs of <br>.
func ScrubHTML() TransformerFunc {
	return func(input []byte) ([]byte, error) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		body := doc.Find("body")
		removeEmptyInlineElements(body)
		collapseBreaks(body)
		out, err := body.Html()
		if err != nil {
			return nil, fmt.Errorf("failed to render scrubbed HTML: %w", err)
		}
		return []byte(out), nil
	}
}

// maxConsecutiveBRs is the longest run of <br> kept.
const maxConsecutiveBRs = 2

var inlineSelector = strings.Join([]string{
	"a", "abbr", "b", "code", "em", "i", "kbd", "mark", "s", "small",
	"span", "strong", "sub", "sup", "u",
}, ", ")

func removeEmptyInlineElements(sel *goquery.Selection) {
	// removing a child can leave its parent empty
	for {
		removed := false
		sel.Find(inlineSelector).Each(func(_ int, el *goquery.Selection) {
			if strings.TrimSpace(el.Text()) == "" && el.Children().Length() == 0 && !hasDataAttr(el) {
				el.Remove()
				removed = true
			}
		})
		if !removed {
			return
		}
	}
}

// hasDataAttr keeps empty elements that carry runtime attributes, such as
// an icon placeholder.
func hasDataAttr(el *goquery.Selection) bool {
	for _, a := range el.Get(0).Attr {
		if strings.HasPrefix(a.Key, "data-") {
			return true
		}
	}
	return false
}

func collapseBreaks(sel *goquery.Selection) {
	sel.Find("br").Each(func(_ int, br *goquery.Selection) {
		node := br.Get(0)
		if node.Parent == nil {
			return
		}
		count := 1
		for sib := node.NextSibling; sib != nil; {
			next := sib.NextSibling
			switch {
			case sib.Type == html.TextNode && strings.TrimSpace(sib.Data) == "":
			case sib.Type == html.ElementNode && sib.Data == "br":
				count++
				if count > maxConsecutiveBRs {
					sib.Parent.RemoveChild(sib)
				}
			default:
				return
			}
			sib = next
		}
	})
}
