package ingest

import (
	"bytes"
	"strings"

	"github.com/at-ishikawa/systab/internal/syscalls"
	"golang.org/x/net/html"
)

const (
	// DefaultTableID is the id of the syscall table on kernelgrok style pages.
	DefaultTableID = "syscall_table"

	htmlHeaderRows = 2

	htmlNameCell       = 1
	htmlFirstSlotCell  = 2
	htmlDefinitionCell = 8
)

// HTMLNormalizer reads the rows of the table whose id is TableID.
// The first two rows are headers and are skipped by position.
type HTMLNormalizer struct {
	TableID string
}

func (n HTMLNormalizer) Normalize(doc []byte) ([]syscalls.Entry, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, &syscalls.InputError{Reason: "parse HTML", Err: err}
	}

	table := findElementByID(root, n.TableID)
	if table == nil {
		return nil, syscalls.Inputf("no element with id %q", n.TableID)
	}

	rows := findElements(table, "tr")
	if len(rows) <= htmlHeaderRows {
		return []syscalls.Entry{}, nil
	}

	entries := make([]syscalls.Entry, 0, len(rows)-htmlHeaderRows)
	for i, row := range rows[htmlHeaderRows:] {
		cells := rowCells(row)
		if len(cells) <= htmlDefinitionCell {
			return nil, syscalls.Inputf("table row %d has %d cells, want at least %d", i+htmlHeaderRows, len(cells), htmlDefinitionCell+1)
		}

		name := textContent(cells[htmlNameCell])
		if name == "" {
			return nil, syscalls.Inputf("table row %d has an empty name", i+htmlHeaderRows)
		}

		var params syscalls.Params
		for _, slot := range syscalls.Slots() {
			params[slot] = textContent(cells[htmlFirstSlotCell+int(slot)])
		}
		entries = append(entries, syscalls.NewEntry(name, params, textContent(cells[htmlDefinitionCell])))
	}
	return entries, nil
}

func findElementByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElementByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// findElements returns the descendants of n named tag in document order.
func findElements(n *html.Node, tag string) []*html.Node {
	var result []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				result = append(result, c)
			}
			walk(c)
		}
	}
	walk(n)
	return result
}

func rowCells(row *html.Node) []*html.Node {
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, c)
		}
	}
	return cells
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
