package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/bmdash/internal/model"
	"github.com/nikbrunner/bmdash/internal/view"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bmdash-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bmdash-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// maxTitleRunes caps link titles; browsers show them in menus.
const maxTitleRunes = 120

const (
	folderIndent = "    "
	linkIndent   = "        "
)

// ExportHTML writes rows, in order, to Netscape bookmark HTML format under a
// single folder named folder. Each link points at the source site.
func ExportHTML(rows []model.Bookmark, folder string) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	fmt.Fprintf(&b, "%s<DT><H3>%s</H3>\n", folderIndent, html.EscapeString(folder))
	fmt.Fprintf(&b, "%s<DL><p>\n", folderIndent)

	for _, bookmark := range rows {
		addDate := ""
		if created := model.ParseCreatedAt(bookmark.CreatedAt); !created.IsZero() {
			addDate = fmt.Sprintf(" ADD_DATE=\"%d\"", created.Unix())
		}
		fmt.Fprintf(&b,
			"%s<DT><A HREF=\"%s\"%s>%s</A>\n",
			linkIndent,
			html.EscapeString(bookmark.SourceURL()),
			addDate,
			html.EscapeString(title(bookmark)),
		)
	}

	fmt.Fprintf(&b, "%s</DL><p>\n", folderIndent)
	b.WriteString("</DL><p>\n")

	return b.String()
}

func title(b model.Bookmark) string {
	t := view.SingleLine(b.Content)
	runes := []rune(t)
	if len(runes) > maxTitleRunes {
		t = string(runes[:maxTitleRunes-1]) + "…"
	}
	if t == "" {
		t = model.PlaceholderContent
	}
	return t
}
