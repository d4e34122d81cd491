// Package champions turns the title holder page into typed records: it finds
// the roster tables, resolves a roster name to one of them and reads the
// title and champion columns by position.
package champions

import (
	"github.com/ibs-source/champions-bot/internal/htmltree"
)

// TitleHolder is one row of a roster table
type TitleHolder struct {
	Title    string `json:"title"`
	Champion string `json:"champion"` // Empty when the cell carries no link, e.g. a vacant title
}

// Columns are the zero-based element positions of the title and champion cells
type Columns struct {
	Title    int
	Champion int
}

// DefaultColumns matches the current page layout, where a reign-date column
// sits between the title and the champion
var DefaultColumns = Columns{Title: 0, Champion: 2}

// FindTables returns the tables carrying the class token, in document order
func FindTables(doc *htmltree.Node, class string) []*htmltree.Node {
	return doc.FindAll("table", class)
}

// Extract reads the title and champion columns of table. Both columns are
// collected independently and zipped to the shorter length, so a row missing
// one of the cells drops the excess tail instead of failing.
func Extract(table *htmltree.Node, cols Columns) []TitleHolder {
	titles := columnLinks(table, cols.Title)
	champions := columnLinks(table, cols.Champion)

	n := min(len(titles), len(champions))
	holders := make([]TitleHolder, n)
	for i := 0; i < n; i++ {
		holders[i] = TitleHolder{Title: titles[i], Champion: champions[i]}
	}
	return holders
}

// columnLinks returns, for every tbody > tr row whose element child at column
// is a td, the text of that cell's first link ("" when it has none)
func columnLinks(table *htmltree.Node, column int) []string {
	var out []string
	for _, body := range table.ChildrenByTag("tbody") {
		for _, row := range body.ChildrenByTag("tr") {
			cell := row.NthElementChild(column)
			if !cell.Is("td") {
				continue
			}
			out = append(out, cell.FirstDescendant("a").Text())
		}
	}
	return out
}
