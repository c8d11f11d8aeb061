package docx_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/model"
	"github.com/goliatone/go-legaldocs/pkg/render"
	"github.com/goliatone/go-legaldocs/pkg/renderers/docx"
)

var ndaType = model.DocumentType{
	Key:  "nda",
	Name: model.LocalizedText{EN: "Non-Disclosure Agreement", TA: "ரகசியத்தன்மை ஒப்பந்தம்"},
}

type wDocument struct {
	Paragraphs []wParagraph `xml:"body>p"`
}

type wParagraph struct {
	Style struct {
		Val string `xml:"val,attr"`
	} `xml:"pPr>pStyle"`
	Runs []wRun `xml:"r"`
}

type wRun struct {
	Bold *struct{} `xml:"rPr>b"`
	Text string    `xml:"t"`
}

type run struct {
	Bold bool
	Text string
}

func readPart(t *testing.T, pkg []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		t.Fatalf("open package: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("package has no %s", name)
	return ""
}

func paragraphs(t *testing.T, documentXML string) [][]run {
	t.Helper()
	var doc wDocument
	if err := xml.Unmarshal([]byte(documentXML), &doc); err != nil {
		t.Fatalf("decode document.xml: %v", err)
	}
	out := make([][]run, 0, len(doc.Paragraphs))
	for _, p := range doc.Paragraphs {
		var runs []run
		for _, r := range p.Runs {
			runs = append(runs, run{Bold: r.Bold != nil, Text: r.Text})
		}
		out = append(out, runs)
	}
	return out
}

func TestRenderBoldRuns(t *testing.T) {
	r := docx.New(docx.WithCreationDate(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))
	text := "NON-DISCLOSURE AGREEMENT (Mutual)\n\n1. PURPOSE. Talks with Acme & Co.\nSigned:\nbody text Acme & Co"
	doc := render.NewDocument(ndaType, model.English, text, model.FormValues{"partyOneName": "Acme & Co"}, nil)

	out, err := r.Render(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	documentXML := readPart(t, out, "word/document.xml")
	got := paragraphs(t, documentXML)
	want := [][]run{
		{{Bold: true, Text: "NON-DISCLOSURE AGREEMENT (Mutual)"}},
		nil,
		{
			{Bold: true, Text: "1. PURPOSE."},
			{Text: " "},
			{Text: "Talks with "},
			{Bold: true, Text: "Acme & Co"},
			{Text: "."},
		},
		{{Bold: true, Text: "Signed:"}},
		{{Text: "body text Acme & Co"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paragraph runs mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(documentXML, `<w:pStyle w:val="Title"/><w:jc w:val="center"/>`) {
		t.Error("title paragraph should use the centred Title style")
	}
	if !strings.Contains(documentXML, "Acme &amp; Co") {
		t.Error("text should be XML escaped")
	}

	styles := readPart(t, out, "word/styles.xml")
	for _, want := range []string{`w:ascii="Calibri"`, `<w:sz w:val="24"/>`, `w:line="276"`, `w:styleId="Title"`, `<w:sz w:val="32"/>`} {
		if !strings.Contains(styles, want) {
			t.Errorf("expected %q in styles.xml", want)
		}
	}

	again, err := r.Render(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(out, again) {
		t.Fatal("package is not reproducible with a fixed creation date")
	}
}

func TestRenderTamilFont(t *testing.T) {
	r := docx.New()
	doc := render.NewDocument(ndaType, model.Tamil, "ரகசியத்தன்மை ஒப்பந்தம் (இருதரப்பு)\nசாட்சிகள்:", nil, nil)

	out, err := r.Render(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	styles := readPart(t, out, "word/styles.xml")
	for _, want := range []string{`w:cs="Nirmala UI"`, `w:bidi="ta-IN"`} {
		if !strings.Contains(styles, want) {
			t.Errorf("expected %q in styles.xml:\n%s", want, styles)
		}
	}
	core := readPart(t, out, "docProps/core.xml")
	if !strings.Contains(core, "<dc:title>ரகசியத்தன்மை ஒப்பந்தம்</dc:title>") {
		t.Errorf("expected localised title in core.xml:\n%s", core)
	}

	got := paragraphs(t, readPart(t, out, "word/document.xml"))
	if diff := cmp.Diff([]run{{Bold: true, Text: "சாட்சிகள்:"}}, got[1]); diff != "" {
		t.Fatalf("tamil heading mismatch (-want +got):\n%s", diff)
	}
}

func TestWithFontOverride(t *testing.T) {
	r := docx.New(docx.WithFont(model.Tamil, docx.Font{Face: "Latha"}))
	doc := render.NewDocument(ndaType, model.Tamil, "தலைப்பு", nil, nil)
	out, err := r.Render(context.Background(), doc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	styles := readPart(t, out, "word/styles.xml")
	if !strings.Contains(styles, `w:cs="Latha"`) || !strings.Contains(styles, `<w:sz w:val="24"/>`) {
		t.Fatalf("font override not applied:\n%s", styles)
	}
}

func TestRendererMetadata(t *testing.T) {
	r := docx.New()
	if r.Name() != "docx" || r.FileExtension() != "docx" || r.ContentType() != docx.ContentType {
		t.Fatalf("unexpected metadata %q %q %q", r.Name(), r.FileExtension(), r.ContentType())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, render.Document{}, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
