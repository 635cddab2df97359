package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LoadHTMLTable extracts the first table matched by selector into a Dataset.
//
// Header cells come from thead th elements when present, otherwise from the
// first row. Data rows are the remaining tr elements; a row whose cell count
// disagrees with the header is skipped. Cell text is whitespace-trimmed.
//
// selector defaults to "table" when empty. Matching no table is an error;
// an empty table yields an empty Dataset.
func LoadHTMLTable(r io.Reader, selector string) (*Dataset, error) {
	if strings.TrimSpace(selector) == "" {
		selector = "table"
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table matches selector %q", selector)
	}

	var header []string
	headerSel := table.Find("thead tr").First()
	if headerSel.Length() == 0 {
		headerSel = table.Find("tr").First()
	}
	headerSel.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		header = append(header, strings.TrimSpace(cell.Text()))
	})
	header = dedupeNames(header)

	d := New(header)
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		// When the first tr doubled as the header we must not re-read it
		// as data.
		if row.Length() > 0 && headerSel.Length() > 0 && row.Get(0) == headerSel.Get(0) {
			return
		}
		var cells []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		d.AppendRow(cells)
	})
	return d, nil
}
