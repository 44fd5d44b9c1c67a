package exporter

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/nikbrunner/bmdash/internal/model"
)

type link struct {
	href, addDate, text string
}

// parseLinks walks the exported document the way a browser importer would.
func parseLinks(t *testing.T, doc string) (folders []string, links []link) {
	t.Helper()

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("export is not parsable HTML: %v", err)
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h3":
				folders = append(folders, textOf(n))
			case "a":
				l := link{text: textOf(n)}
				for _, attr := range n.Attr {
					switch attr.Key {
					case "href":
						l.href = attr.Val
					case "add_date":
						l.addDate = attr.Val
					}
				}
				links = append(links, l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return folders, links
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func TestExportHTML_Empty(t *testing.T) {
	out := ExportHTML(nil, "X Bookmarks")

	if !strings.Contains(out, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("expected DOCTYPE declaration")
	}
	if !strings.Contains(out, "<TITLE>Bookmarks</TITLE>") {
		t.Error("expected TITLE element")
	}

	folders, links := parseLinks(t, out)
	if len(folders) != 1 || folders[0] != "X Bookmarks" {
		t.Errorf("expected one folder, got %v", folders)
	}
	if len(links) != 0 {
		t.Errorf("expected no links, got %v", links)
	}
}

func TestExportHTML_KeepsOrderAndLinksToSource(t *testing.T) {
	rows := []model.Bookmark{
		{ID: "2", Content: "second", CreatedAt: "2023-11-14T22:13:20Z"},
		{ID: "1", Content: "first", CreatedAt: "garbage"},
	}

	_, links := parseLinks(t, ExportHTML(rows, "X Bookmarks"))

	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].href != "https://x.com/i/status/2" || links[0].text != "second" {
		t.Errorf("unexpected first link %+v", links[0])
	}
	if links[0].addDate != "1700000000" {
		t.Errorf("expected ADD_DATE 1700000000, got %q", links[0].addDate)
	}
	if links[1].addDate != "" {
		t.Errorf("expected no ADD_DATE for unparsable date, got %q", links[1].addDate)
	}
}

func TestExportHTML_EscapesContent(t *testing.T) {
	rows := []model.Bookmark{
		{ID: "1", Content: `Tom & Jerry say "hi" <img src=x onerror=alert(1)>`},
	}

	out := ExportHTML(rows, `<Folder & Co>`)

	if strings.Contains(out, "<img") {
		t.Error("markup from content leaked into export unescaped")
	}

	folders, links := parseLinks(t, out)
	if folders[0] != "<Folder & Co>" {
		t.Errorf("folder name not round-tripped: %q", folders[0])
	}
	if links[0].text != `Tom & Jerry say "hi" <img src=x onerror=alert(1)>` {
		t.Errorf("content not round-tripped literally: %q", links[0].text)
	}
}

func TestExportHTML_TruncatesLongTitles(t *testing.T) {
	rows := []model.Bookmark{{ID: "1", Content: strings.Repeat("a", 500)}}

	_, links := parseLinks(t, ExportHTML(rows, "f"))

	if n := len([]rune(links[0].text)); n != maxTitleRunes {
		t.Errorf("expected %d runes, got %d", maxTitleRunes, n)
	}
	if !strings.HasSuffix(links[0].text, "…") {
		t.Error("expected ellipsis")
	}
}

func TestExportHTML_KeepsMarkupLiteral(t *testing.T) {
	rows := []model.Bookmark{{ID: "1", Content: "Vec<String> & <br>"}}

	_, links := parseLinks(t, ExportHTML(rows, "f"))

	if links[0].text != "Vec<String> & <br>" {
		t.Errorf("expected literal text, got %q", links[0].text)
	}
}

func TestExportHTML_PlaceholderForControlOnlyContent(t *testing.T) {
	rows := []model.Bookmark{{ID: "1", Content: "\x1b[31m\x07\n"}}

	_, links := parseLinks(t, ExportHTML(rows, "f"))

	if links[0].text != model.PlaceholderContent {
		t.Errorf("expected placeholder, got %q", links[0].text)
	}
}

func TestExportHTML_Indentation(t *testing.T) {
	out := ExportHTML([]model.Bookmark{{ID: "1", Content: "x"}}, "f")

	for _, want := range []string{
		"\n    <DT><H3>f</H3>\n",
		"\n    <DL><p>\n",
		"\n        <DT><A HREF=\"https://x.com/i/status/1\">x</A>\n",
		"\n    </DL><p>\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in export:\n%s", want, out)
		}
	}
}
