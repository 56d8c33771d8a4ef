package reader

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Shloimy15e/clean-yiddish-transcripts/pkg/document"
)

const (
	docxDocument = "word/document.xml"
	docxStyles   = "word/styles.xml"

	maxStyleDepth = 16
)

var errNoDocumentPart = errors.New("missing " + docxDocument)

// onOff is a WordprocessingML toggle: present means on unless val says off.
type onOff struct {
	Val string `xml:"val,attr"`
}

func (o *onOff) value() *bool {
	if o == nil {
		return nil
	}
	v := true
	switch strings.ToLower(o.Val) {
	case "0", "false", "off", "none":
		v = false
	}
	return &v
}

type valAttr struct {
	Val string `xml:"val,attr"`
}

type fonts struct {
	ASCII string `xml:"ascii,attr"`
	HAnsi string `xml:"hAnsi,attr"`
	CS    string `xml:"cs,attr"`
}

type runProps struct {
	B         *onOff   `xml:"b"`
	BCs       *onOff   `xml:"bCs"`
	I         *onOff   `xml:"i"`
	ICs       *onOff   `xml:"iCs"`
	U         *valAttr `xml:"u"`
	Strike    *onOff   `xml:"strike"`
	Sz        *valAttr `xml:"sz"`
	SzCs      *valAttr `xml:"szCs"`
	Color     *valAttr `xml:"color"`
	VertAlign *valAttr `xml:"vertAlign"`
	RFonts    *fonts   `xml:"rFonts"`
}

func (rp *runProps) bold() *bool {
	if rp == nil {
		return nil
	}
	if rp.B != nil {
		return rp.B.value()
	}
	return rp.BCs.value()
}

func (rp *runProps) italic() *bool {
	if rp == nil {
		return nil
	}
	if rp.I != nil {
		return rp.I.value()
	}
	return rp.ICs.value()
}

// size returns the run size in points; sz is stored in half-points.
func (rp *runProps) size() *float64 {
	if rp == nil {
		return nil
	}
	for _, v := range []*valAttr{rp.Sz, rp.SzCs} {
		if v == nil {
			continue
		}
		if n, err := strconv.ParseFloat(v.Val, 64); err == nil && n > 0 {
			pt := n / 2
			return &pt
		}
	}
	return nil
}

type paraProps struct {
	PStyle     *valAttr  `xml:"pStyle"`
	Jc         *valAttr  `xml:"jc"`
	Bidi       *onOff    `xml:"bidi"`
	OutlineLvl *valAttr  `xml:"outlineLvl"`
	RPr        *runProps `xml:"rPr"`
}

type styleDef struct {
	Type    string     `xml:"type,attr"`
	StyleID string     `xml:"styleId,attr"`
	Name    *valAttr   `xml:"name"`
	BasedOn *valAttr   `xml:"basedOn"`
	PPr     *paraProps `xml:"pPr"`
	RPr     *runProps  `xml:"rPr"`
}

type stylesPart struct {
	DocDefaults struct {
		RPrDefault struct {
			RPr *runProps `xml:"rPr"`
		} `xml:"rPrDefault"`
	} `xml:"docDefaults"`
	Styles []styleDef `xml:"style"`
}

// styleSheet resolves paragraph styles through their basedOn chains.
type styleSheet struct {
	byID        map[string]*styleDef
	defaultSize *float64
}

func newStyleSheet(part *stylesPart) *styleSheet {
	ss := &styleSheet{byID: make(map[string]*styleDef)}
	if part == nil {
		return ss
	}
	for i := range part.Styles {
		ss.byID[part.Styles[i].StyleID] = &part.Styles[i]
	}
	ss.defaultSize = part.DocDefaults.RPrDefault.RPr.size()
	return ss
}

// chain returns the style and its ancestors, nearest first.
func (ss *styleSheet) chain(id string) []*styleDef {
	var out []*styleDef
	seen := make(map[string]bool)
	for id != "" && !seen[id] && len(out) < maxStyleDepth {
		seen[id] = true
		s, ok := ss.byID[id]
		if !ok {
			break
		}
		out = append(out, s)
		if s.BasedOn == nil {
			break
		}
		id = s.BasedOn.Val
	}
	return out
}

func (ss *styleSheet) name(id string) string {
	if s, ok := ss.byID[id]; ok && s.Name != nil {
		return s.Name.Val
	}
	return id
}

func (ss *styleSheet) bold(id string) *bool {
	for _, s := range ss.chain(id) {
		if b := s.RPr.bold(); b != nil {
			return b
		}
	}
	return nil
}

func (ss *styleSheet) size(id string) *float64 {
	for _, s := range ss.chain(id) {
		if v := s.RPr.size(); v != nil {
			return v
		}
	}
	return ss.defaultSize
}

func (ss *styleSheet) outlined(id string) bool {
	for _, s := range ss.chain(id) {
		if s.PPr != nil && s.PPr.OutlineLvl != nil {
			return true
		}
	}
	return false
}

// wordRun is a w:r element with its text flattened in document order.
type wordRun struct {
	Props *runProps
	Text  string
}

func (r *wordRun) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				r.Props = new(runProps)
				if err := d.DecodeElement(r.Props, &t); err != nil {
					return err
				}
			case "t":
				var s string
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				sb.WriteString(s)
			case "tab":
				sb.WriteByte('\t')
				if err := d.Skip(); err != nil {
					return err
				}
			case "br", "cr":
				sb.WriteByte(' ')
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			r.Text = sb.String()
			return nil
		}
	}
}

// wordParagraph is a w:p element. Runs nested in hyperlinks, insertions
// and smart tags are flattened in order.
type wordParagraph struct {
	Props *paraProps
	Runs  []wordRun
}

func (p *wordParagraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				p.Props = new(paraProps)
				if err := d.DecodeElement(p.Props, &t); err != nil {
					return err
				}
			case "r":
				var r wordRun
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
			case "hyperlink", "ins", "smartTag", "sdt", "sdtContent", "fldSimple":
				depth++
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// readDOCX reads paragraphs from a Word document, resolving style names,
// bold and font sizes through the style sheet.
func readDOCX(data []byte) ([]*document.Paragraph, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	var styles *stylesPart
	if f := findPart(zr, docxStyles); f != nil {
		styles = new(stylesPart)
		if err := decodePart(f, styles); err != nil {
			return nil, fmt.Errorf("parsing styles: %w", err)
		}
	}
	ss := newStyleSheet(styles)

	f := findPart(zr, docxDocument)
	if f == nil {
		return nil, errNoDocumentPart
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var paras []*document.Paragraph
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "p" {
			continue
		}
		var wp wordParagraph
		if err := dec.DecodeElement(&wp, &start); err != nil {
			return nil, fmt.Errorf("parsing paragraph: %w", err)
		}
		if p := wp.paragraph(ss); p != nil {
			paras = append(paras, p)
		}
	}
	return paras, nil
}

func (wp *wordParagraph) paragraph(ss *styleSheet) *document.Paragraph {
	var sb strings.Builder
	for _, r := range wp.Runs {
		sb.WriteString(r.Text)
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var styleID string
	p := &document.Paragraph{Text: text}
	if pp := wp.Props; pp != nil {
		if pp.PStyle != nil {
			styleID = pp.PStyle.Val
		}
		if pp.Jc != nil || pp.Bidi != nil {
			p.Format = &document.Format{}
			if pp.Jc != nil {
				p.Format.Alignment = pp.Jc.Val
			}
			if b := pp.Bidi.value(); b != nil {
				p.Format.RightToLeft = *b
			}
		}
		if pp.OutlineLvl != nil {
			p.IsHeadingStyle = true
		}
	}
	if styleID != "" {
		p.StyleName = ss.name(styleID)
		if ss.outlined(styleID) {
			p.IsHeadingStyle = true
		}
	}

	styleBold := ss.bold(styleID)
	for _, r := range wp.Runs {
		if r.Text == "" {
			continue
		}
		st := runStyle(r.Props)
		if st.Bold == nil {
			st.Bold = styleBold
		}
		p.Runs = append(p.Runs, document.Run{Text: r.Text, Style: st})
	}

	for _, r := range p.Runs {
		if r.Style.FontSize != nil {
			v := *r.Style.FontSize
			p.FontSize = &v
			break
		}
	}
	if p.FontSize == nil {
		p.FontSize = ss.size(styleID)
	}
	return p
}

func runStyle(rp *runProps) document.RunStyle {
	var st document.RunStyle
	if rp == nil {
		return st
	}
	st.Bold = rp.bold()
	st.Italic = rp.italic()
	st.Strike = rp.Strike.value()
	st.FontSize = rp.size()
	if rp.U != nil {
		u := !strings.EqualFold(rp.U.Val, "none")
		st.Underline = &u
	}
	if rp.VertAlign != nil {
		yes := true
		switch rp.VertAlign.Val {
		case "superscript":
			st.Superscript = &yes
		case "subscript":
			st.Subscript = &yes
		}
	}
	if rp.Color != nil {
		st.ColorRGB = parseColor(rp.Color.Val)
	}
	if rp.RFonts != nil {
		for _, name := range []string{rp.RFonts.CS, rp.RFonts.ASCII, rp.RFonts.HAnsi} {
			if name != "" {
				st.FontName = name
				break
			}
		}
	}
	return st
}

// parseColor converts a hex RRGGBB value; "auto" and malformed values
// yield nil.
func parseColor(hex string) []int {
	if len(hex) != 6 {
		return nil
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil
	}
	return []int{int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff)}
}

func findPart(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func decodePart(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}
