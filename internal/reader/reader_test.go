package reader

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{".txt", FormatText, false},
		{"md", FormatText, false},
		{"JSON", FormatJSON, false},
		{".htm", FormatHTML, false},
		{"docx", FormatDOCX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("error = %v, want ErrUnsupportedFormat", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name, contentType string
		want              Format
	}{
		{"shiur.docx", "", FormatDOCX},
		{"page", "text/html; charset=utf-8", FormatHTML},
		{"upload", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", FormatDOCX},
		{"data", "application/json", FormatJSON},
		{"notes", "text/plain", FormatText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.name, tt.contentType)
			if err != nil {
				t.Fatalf("DetectFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := DetectFormat("archive.tar", "application/x-tar"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("DetectFormat(tar) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRead_Text(t *testing.T) {
	in := "\xef\xbb\xbfשורה ערשטע\r\n\n  \nשורה צווייטע\n"
	doc, err := Read(strings.NewReader(in), FormatText)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := len(doc.Paragraphs); got != 2 {
		t.Fatalf("paragraphs = %d, want 2", got)
	}
	if got := doc.Paragraphs[0].Text; got != "שורה ערשטע" {
		t.Errorf("first paragraph = %q", got)
	}
	if got := doc.Text(); got != "שורה ערשטע\nשורה צווייטע" {
		t.Errorf("Text() = %q", got)
	}
}

func TestRead_NormalizesToNFC(t *testing.T) {
	// shin, shin dot, qamats: NFC orders qamats first
	decomposed := "\u05e9\u05c1\u05b8"
	doc, err := Read(strings.NewReader(decomposed), FormatText)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := doc.Paragraphs[0].Text; got != "\u05e9\u05b8\u05c1" {
		t.Errorf("Text = %+q, want canonical order", got)
	}
}

func TestRead_MaxSize(t *testing.T) {
	_, err := Read(strings.NewReader(strings.Repeat("א", 100)), FormatText, WithMaxSize(10))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Read() error = %v, want ErrTooLarge", err)
	}
	if _, err := Read(strings.NewReader("abc"), FormatText, WithMaxSize(3)); err != nil {
		t.Errorf("Read() at limit error = %v", err)
	}
}

func TestRead_UnsupportedFormat(t *testing.T) {
	if _, err := Read(strings.NewReader("x"), Format("pdf")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Read() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRead_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"object", `{"paragraphs":[{"text":"כותרת","style_name":"Heading 1"},{"text":"גוף הטקסט כאן","font_size":12}]}`},
		{"array", `[{"text":"כותרת","style_name":"Heading 1"},{"text":"גוף הטקסט כאן","font_size":12}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Read(strings.NewReader(tt.in), FormatJSON)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if len(doc.Paragraphs) != 2 {
				t.Fatalf("paragraphs = %d, want 2", len(doc.Paragraphs))
			}
			if !doc.Paragraphs[0].IsHeadingStyle {
				t.Error("heading style not inferred from style_name")
			}
			if got := doc.Paragraphs[1].WordCount; got != 3 {
				t.Errorf("WordCount = %d, want 3", got)
			}
		})
	}
}

func TestRead_JSONInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"syntax", `{"paragraphs":`, "decoding"},
		{"negative size", `[{"text":"x","font_size":-3}]`, "font_size"},
		{"bad color", `[{"text":"x","runs":[{"text":"x","style":{"color_rgb":[1,2]}}]}]`, "color_rgb"},
		{"bad alignment", `[{"text":"x","format":{"alignment":"diagonal"}}]`, "alignment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in), FormatJSON)
			if err == nil {
				t.Fatal("Read() error = nil, want error")
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tt.want)) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestRead_HTML(t *testing.T) {
	in := `<html><body>
<h1>שיחת ליל שמחת תורה</h1>
<p dir="rtl"><b>בעזרת השם</b></p>
<p>און <span style="font-size: 24px">דער רבי</span> האט געזאגט</p>
<div><p>inner</p></div>
<script>alert(1)</script>
</body></html>`

	doc, err := Read(strings.NewReader(in), FormatHTML)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := len(doc.Paragraphs); got != 4 {
		for _, p := range doc.Paragraphs {
			t.Logf("paragraph: %q", p.Text)
		}
		t.Fatalf("paragraphs = %d, want 4", got)
	}

	h := doc.Paragraphs[0]
	if h.StyleName != "Heading 1" || !h.IsHeadingStyle {
		t.Errorf("heading StyleName = %q IsHeadingStyle = %v", h.StyleName, h.IsHeadingStyle)
	}
	bold := doc.Paragraphs[1]
	if !bold.IsBold {
		t.Error("bold paragraph not detected")
	}
	if bold.Format == nil || !bold.Format.RightToLeft {
		t.Errorf("Format = %+v, want right_to_left", bold.Format)
	}
	sized := doc.Paragraphs[2]
	if sized.FontSize == nil || *sized.FontSize != 18 {
		t.Errorf("FontSize = %v, want 18", sized.FontSize)
	}
	if sized.Text != "און דער רבי האט געזאגט" {
		t.Errorf("Text = %q", sized.Text)
	}
	if strings.Contains(doc.Text(), "alert") {
		t.Error("script content leaked into text")
	}
}

func TestRead_HTMLWithoutBlocks(t *testing.T) {
	doc, err := Read(strings.NewReader("<div>ערשטע</div>\n<div>צווייטע</div>"), FormatHTML)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := len(doc.Paragraphs); got != 2 {
		t.Errorf("paragraphs = %d, want 2", got)
	}
}

func TestParseFontSize(t *testing.T) {
	tests := []struct {
		style  string
		want   float64
		wantOK bool
	}{
		{"font-size: 14pt", 14, true},
		{"color: red; FONT-SIZE:16px", 12, true},
		{"font-size: 1.2em", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseFontSize(tt.style)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseFontSize(%q) = %v, %v; want %v, %v", tt.style, got, ok, tt.want, tt.wantOK)
		}
	}
}

const testStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:docDefaults><w:rPrDefault><w:rPr><w:sz w:val="24"/></w:rPr></w:rPrDefault></w:docDefaults>
  <w:style w:type="paragraph" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading1">
    <w:name w:val="heading 1"/><w:basedOn w:val="Normal"/>
    <w:pPr><w:outlineLvl w:val="0"/></w:pPr>
    <w:rPr><w:b/><w:sz w:val="32"/></w:rPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Custom">
    <w:name w:val="Shiur Title"/><w:basedOn w:val="Heading1"/>
  </w:style>
</w:styles>`

const testDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
  <w:p><w:pPr><w:pStyle w:val="Custom"/><w:jc w:val="center"/></w:pPr><w:r><w:t>שיחת ליל שמחת תורה</w:t></w:r></w:p>
  <w:p><w:pPr><w:bidi/></w:pPr>
    <w:r><w:rPr><w:b/><w:color w:val="FF0000"/></w:rPr><w:t xml:space="preserve">און דער </w:t></w:r>
    <w:hyperlink><w:r><w:t>רבי</w:t></w:r></w:hyperlink>
    <w:r><w:tab/><w:t>האט</w:t><w:br/><w:t>געזאגט</w:t></w:r>
  </w:p>
  <w:p><w:r><w:t>   </w:t></w:r></w:p>
  <w:tbl><w:tr><w:tc><w:p><w:r><w:rPr><w:sz w:val="20"/><w:vertAlign w:val="superscript"/></w:rPr><w:t>א</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
</w:body>
</w:document>`

func buildDOCX(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestRead_DOCX(t *testing.T) {
	data := buildDOCX(t, map[string]string{
		"word/document.xml": testDocument,
		"word/styles.xml":   testStyles,
	})
	doc, err := Read(bytes.NewReader(data), FormatDOCX)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := len(doc.Paragraphs); got != 3 {
		t.Fatalf("paragraphs = %d, want 3 (blank skipped)", got)
	}

	title := doc.Paragraphs[0]
	if title.StyleName != "Shiur Title" {
		t.Errorf("StyleName = %q, want resolved style name", title.StyleName)
	}
	if !title.IsHeadingStyle {
		t.Error("outline level inherited through basedOn not treated as heading")
	}
	if !title.IsBold {
		t.Error("bold inherited from style chain not applied")
	}
	if title.FontSize == nil || *title.FontSize != 16 {
		t.Errorf("FontSize = %v, want 16", title.FontSize)
	}
	if title.Format == nil || title.Format.Alignment != "center" {
		t.Errorf("Format = %+v, want center", title.Format)
	}

	body := doc.Paragraphs[1]
	if body.Text != "און דער רבי\tהאט געזאגט" {
		t.Errorf("Text = %q", body.Text)
	}
	if body.IsBold {
		t.Error("partially bold paragraph reported as bold")
	}
	if body.Format == nil || !body.Format.RightToLeft {
		t.Errorf("Format = %+v, want right_to_left", body.Format)
	}
	if body.FontSize == nil || *body.FontSize != 12 {
		t.Errorf("FontSize = %v, want document default 12", body.FontSize)
	}
	if got := body.Runs[0].Style.ColorRGB; len(got) != 3 || got[0] != 255 || got[1] != 0 {
		t.Errorf("ColorRGB = %v, want [255 0 0]", got)
	}

	cell := doc.Paragraphs[2]
	if cell.FontSize == nil || *cell.FontSize != 10 {
		t.Errorf("table cell FontSize = %v, want 10", cell.FontSize)
	}
	if sup := cell.Runs[0].Style.Superscript; sup == nil || !*sup {
		t.Error("superscript run not detected")
	}
}

func TestRead_DOCXErrors(t *testing.T) {
	if _, err := Read(strings.NewReader("not a zip"), FormatDOCX); err == nil {
		t.Error("Read(garbage) error = nil")
	}
	data := buildDOCX(t, map[string]string{"word/styles.xml": testStyles})
	if _, err := Read(bytes.NewReader(data), FormatDOCX); !errors.Is(err, errNoDocumentPart) {
		t.Errorf("Read(no document) error = %v, want errNoDocumentPart", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shiur.txt")
	if err := os.WriteFile(path, []byte("ערשטע\nצווייטע\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if doc.Metadata.Filename != "shiur.txt" || doc.Metadata.Format != "text" {
		t.Errorf("Metadata = %+v", doc.Metadata)
	}
	if len(doc.Paragraphs) != 2 {
		t.Errorf("paragraphs = %d, want 2", len(doc.Paragraphs))
	}

	if _, err := ReadFile(filepath.Join(dir, "x.pdf")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ReadFile(pdf) error = %v", err)
	}
}
