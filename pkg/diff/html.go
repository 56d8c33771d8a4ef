package diff

import (
	"fmt"
	"html"
	"strings"
)

// HTML renders the line diff as a fragment with the classes diff-container,
// diff-stats, diff-line (plus the change type), line-num, line-content,
// word-removed and word-added. All text is escaped.
func HTML(original, cleaned string) (string, error) {
	d, err := Lines(original, cleaned)
	if err != nil {
		return "", err
	}
	return d.HTML(), nil
}

// HTML renders d; see the package-level HTML.
func (d *LineDiff) HTML() string {
	var b strings.Builder
	b.WriteString(`<div class="diff-container">`)
	fmt.Fprintf(&b, `<div class="diff-stats">`+
		`<span class="stat-removed">−%d removed</span>`+
		`<span class="stat-added">+%d added</span>`+
		`<span class="stat-modified">~%d modified</span>`+
		`</div>`,
		d.Stats.LinesRemoved, d.Stats.LinesAdded, d.Stats.LinesModified)

	b.WriteString(`<div class="diff-content">`)
	for _, c := range d.Changes {
		var content string
		switch c.Type {
		case Unchanged:
			content = html.EscapeString(c.Original)
		case Removed:
			content = "−" + html.EscapeString(c.Original)
		case Added:
			content = "+" + html.EscapeString(c.Cleaned)
		case Modified:
			content = renderWords(c.WordDiff)
		}
		fmt.Fprintf(&b, `<div class="diff-line %s"><span class="line-num">%s</span><span class="line-num">%s</span><span class="line-content">%s</span></div>`,
			c.Type, lineNum(c.OriginalLine), lineNum(c.CleanedLine), content)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func lineNum(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprint(n)
}

func renderWords(words []WordChange) string {
	var b strings.Builder
	for _, w := range words {
		text := html.EscapeString(w.Text)
		switch w.Type {
		case Removed:
			fmt.Fprintf(&b, `<del class="word-removed">%s</del>`, text)
		case Added:
			fmt.Fprintf(&b, `<ins class="word-added">%s</ins>`, text)
		default:
			b.WriteString(text)
		}
	}
	return b.String()
}
