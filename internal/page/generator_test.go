package page

import (
	"html/template"
	"strings"
	"testing"

	"github.com/denbitaro/nikki/internal/storage"
)

func testGenerator() *Generator {
	return NewGenerator("テストの日記", "../css/diary-detail.css")
}

func TestRenderDetailPage(t *testing.T) {
	doc, err := testGenerator().Render(Model{
		Title:    template.HTML(EscapeTitle("きょうのこと")),
		DateISO:  "2024-03-05",
		DateDisp: "2024年3月5日",
		Body:     FormatBody("一行目\n二行目"),
		Prev:     NavLink{Href: "20240101.html"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(doc)

	for _, want := range []string{
		`<title>きょうのこと - テストの日記</title>`,
		`datetime="2024-03-05"`,
		`2024年3月5日`,
		`<p>一行目<br />二行目</p>`,
		`rel="prev" href="20240101.html"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q", want)
		}
	}

	// No newer neighbor: the next link must be a disabled placeholder.
	if !strings.Contains(html, `rel="next" href="#" data-disabled="true" aria-disabled="true"`) {
		t.Error("next link should be disabled at the newest entry")
	}
}

func TestRenderDisabledPrevAtOldest(t *testing.T) {
	doc, err := testGenerator().Render(Model{
		Title:    "はじめて",
		DateISO:  "2024-01-01",
		DateDisp: "2024年1月1日",
		Body:     FormatBody("x"),
		Next:     NavLink{Href: "20240102.html"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(doc)
	if !strings.Contains(html, `rel="prev" href="#" data-disabled="true"`) {
		t.Error("prev link should be disabled at the oldest entry")
	}
	if !strings.Contains(html, `rel="next" href="20240102.html"`) {
		t.Error("next link should point at the newer neighbor")
	}
}

func TestFormatBodyEscapes(t *testing.T) {
	got := string(FormatBody("<script>alert(1)</script>"))
	if strings.Contains(got, "<script>") {
		t.Errorf("markup not escaped: %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("expected escaped markup, got %q", got)
	}
}

func TestFormatBodyNormalisesCRLF(t *testing.T) {
	if got := string(FormatBody("a\r\nb")); got != "<p>a<br />b</p>" {
		t.Errorf("FormatBody = %q", got)
	}
}

func TestExtractBodyRoundTrip(t *testing.T) {
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	body := "一行目\n二行目\n\nそして最後"
	doc, err := testGenerator().Render(Model{
		Title:    "回覧",
		DateISO:  "2024-03-05",
		DateDisp: "2024年3月5日",
		Body:     FormatBody(body),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := fs.Write("20240305.html", doc); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := ExtractBody(fs, "20240305.html")
	if err != nil {
		t.Fatalf("ExtractBody: %v", err)
	}
	if got != body {
		t.Errorf("round trip = %q, want %q", got, body)
	}
}

func TestExtractBodyRoundTripSpecialCharacters(t *testing.T) {
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	body := "1 < 2 && \"quote\" 'tick'\n<br> literal"
	doc, err := testGenerator().Render(Model{
		Title:    "記号",
		DateISO:  "2024-03-06",
		DateDisp: "2024年3月6日",
		Body:     FormatBody(body),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := fs.Write("20240306.html", doc); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := ExtractBody(fs, "20240306.html")
	if err != nil {
		t.Fatalf("ExtractBody: %v", err)
	}
	if got != body {
		t.Errorf("round trip = %q, want %q", got, body)
	}
}

func TestExtractBodyMissingFile(t *testing.T) {
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	got, err := ExtractBody(fs, "nope.html")
	if err != nil {
		t.Fatalf("ExtractBody: %v", err)
	}
	if got != "" {
		t.Errorf("missing file body = %q, want empty", got)
	}
}

func TestEscapeTitleRoundTrip(t *testing.T) {
	title := `<b>Bold & "quoted"</b>`
	if got := UnescapeTitle(EscapeTitle(title)); got != title {
		t.Errorf("title round trip = %q", got)
	}
}
