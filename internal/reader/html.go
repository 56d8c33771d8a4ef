package reader

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, blockquote"

var (
	sanitizer = newSanitizer()

	fontSizeRe = regexp.MustCompile(`(?i)font-size\s*:\s*([0-9.]+)\s*(pt|px)`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyles("font-size").Globally()
	p.AllowAttrs("dir").Globally()
	return p
}

// readHTML sanitizes the page and turns each innermost block element into a
// paragraph. Runs carry bold, italic, underline and font size inherited
// from enclosing inline elements.
func readHTML(data []byte) ([]*document.Paragraph, error) {
	clean := sanitizer.SanitizeBytes(data)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(clean))
	if err != nil {
		return nil, err
	}

	var paras []*document.Paragraph
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Skip containers whose text is read through a nested block.
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if p := htmlParagraph(s); p != nil {
			paras = append(paras, p)
		}
	})
	if len(paras) > 0 {
		return paras, nil
	}

	// No block markup: fall back to the text lines.
	return readText([]byte(doc.Text())), nil
}

func htmlParagraph(s *goquery.Selection) *document.Paragraph {
	node := s.Get(0)
	var runs []document.Run
	walkRuns(node, blockStyle(node), &runs)

	text := collapse(s.Text())
	if text == "" {
		return nil
	}
	p := &document.Paragraph{Text: text, Runs: runs}
	if name := goquery.NodeName(s); len(name) == 2 && name[0] == 'h' {
		p.StyleName = "Heading " + name[1:]
	}
	if dir, ok := s.Attr("dir"); ok {
		p.Format = &document.Format{RightToLeft: strings.EqualFold(dir, "rtl")}
	}
	return p
}

// blockStyle is the style the block element itself declares.
func blockStyle(n *html.Node) document.RunStyle {
	var st document.RunStyle
	applyElement(n, &st)
	return st
}

func walkRuns(n *html.Node, st document.RunStyle, runs *[]document.Run) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			*runs = append(*runs, document.Run{Text: collapse(c.Data), Style: st})
		case html.ElementNode:
			if c.Data == "br" {
				continue
			}
			child := st
			applyElement(c, &child)
			walkRuns(c, child, runs)
		}
	}
}

func applyElement(n *html.Node, st *document.RunStyle) {
	yes := true
	switch n.Data {
	case "b", "strong":
		st.Bold = &yes
	case "i", "em":
		st.Italic = &yes
	case "u", "ins":
		st.Underline = &yes
	case "s", "strike", "del":
		st.Strike = &yes
	case "sup":
		st.Superscript = &yes
	case "sub":
		st.Subscript = &yes
	}
	for _, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		if size, ok := parseFontSize(a.Val); ok {
			st.FontSize = &size
		}
	}
}

// parseFontSize reads a font-size declaration in points. Pixel sizes are
// converted at 96 dpi.
func parseFontSize(style string) (float64, bool) {
	m := fontSizeRe.FindStringSubmatch(style)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	if strings.EqualFold(m[2], "px") {
		v *= 0.75
	}
	return v, true
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
