package processors

// DefaultExceptionPatterns protect content from removal.
var DefaultExceptionPatterns = []string{
	`לחיים`,
}

// DefaultForceRemovePatterns mark paragraphs that are always removed.
var DefaultForceRemovePatterns = []string{
	`בס"ד`,
	`כ"ק אד"ש צוה`,
}

// DefaultSpecialChars are invisible characters that survive copy-paste from
// word processors.
var DefaultSpecialChars = []string{
	"\u200b", // zero-width space
	"\ufeff", // byte order mark
	"\u200e", // left-to-right mark
	"\u200f", // right-to-left mark
}

// LabeledPattern pairs a regular expression with the label used in
// removal records.
type LabeledPattern struct {
	Pattern string `json:"pattern" yaml:"pattern" mapstructure:"pattern" validate:"required"`
	Label   string `json:"label" yaml:"label" mapstructure:"label" validate:"required"`
}

// ExcessiveNewlinesLabel is the label whose matches are collapsed to a blank
// line instead of deleted.
const ExcessiveNewlinesLabel = "excessive newlines"

// TitlePatterns match headings, timestamps, labels and separators in
// plain-text transcripts.
var TitlePatterns = []LabeledPattern{
	{`^[A-Z\s]+:.*$`, "headings with colon"},
	{`^Chapter \d+.*$`, "chapter headings"},
	{`^Section \d+.*$`, "section headings"},
	{`\d{1,2}:\d{2}:\d{2}`, "timestamps"},
	{`\[\d{1,2}:\d{2}\]`, "bracketed timestamps"},
	{`^Speaker \d+:.*$`, "speaker labels"},
	{`^Interviewer:.*$`, "interviewer labels"},
	{`^Narrator:.*$`, "narrator labels"},
	{`\n{3,}`, ExcessiveNewlinesLabel},
	{`^[\d\s\-_=]+$`, "separator lines"},
	{`^\s*Page \d+\s*$`, "page numbers"},
	{`^\s*\d+\s*$`, "standalone numbers"},
}

// BracketPatterns match bracketed and parenthesized notes.
var BracketPatterns = []LabeledPattern{
	{`\[.*?\]\s*\(.*?\)`, "brackets followed by parentheses"},
	{`\[.*?\]`, "bracketed notes"},
	{`\(.*?\)`, "parenthetical notes"},
}

func clonePatterns(p []string) []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p))
	copy(out, p)
	return out
}
