package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"TNSBot/internal/domain"
	"TNSBot/internal/scanner"
)

// TNSLayout reads the astronote pages of wis-tns.org.
type TNSLayout struct{}

var _ scanner.Layout = TNSLayout{}

// NewTNSLayout returns the layout registered as "tns".
func NewTNSLayout() TNSLayout {
	return TNSLayout{}
}

// Name identifies the layout inside the registry.
func (TNSLayout) Name() string {
	return "tns"
}

// ParseListing extracts every .note element of the listing page.
func (TNSLayout) ParseListing(doc *goquery.Document) ([]scanner.Note, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil listing document", domain.ErrParse)
	}

	var notes []scanner.Note
	doc.Find(".note").Each(func(_ int, sel *goquery.Selection) {
		notes = append(notes, parseNote(sel))
	})
	return notes, nil
}

// ParseObjects extracts every table.objects-table of a detail page.
// Tables without a header row are skipped.
func (TNSLayout) ParseObjects(doc *goquery.Document) ([]scanner.Table, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil detail document", domain.ErrParse)
	}

	var tables []scanner.Table
	doc.Find("table.objects-table").Each(func(_ int, sel *goquery.Selection) {
		if table, ok := parseTable(sel); ok {
			tables = append(tables, table)
		}
	})
	return tables, nil
}

func parseNote(sel *goquery.Selection) scanner.Note {
	return scanner.Note{
		Text:    sel.Text(),
		Title:   collapse(sel.Find(".note-title").First().Text()),
		Authors: splitAuthors(sel.Find(".note-coauthors").First().Text()),
		Link:    noteHref(sel.Find(".note-link").First()),
	}
}

// noteHref accepts either <a class="note-link"> or a wrapper around an anchor.
func noteHref(link *goquery.Selection) string {
	if href, ok := link.Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	if href, ok := link.Find("a[href]").First().Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	return ""
}

func parseTable(sel *goquery.Selection) (scanner.Table, bool) {
	var headers []string
	sel.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, collapse(th.Text()))
	})
	if len(headers) == 0 {
		sel.Find("tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
			headers = append(headers, collapse(th.Text()))
		})
	}
	if len(headers) == 0 {
		return scanner.Table{}, false
	}

	table := scanner.Table{Headers: headers}
	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		row := make(map[string]string, len(headers))
		cells.Each(func(i int, td *goquery.Selection) {
			if i < len(headers) {
				row[headers[i]] = collapse(td.Text())
			}
		})
		table.Rows = append(table.Rows, row)
	})
	return table, true
}

func splitAuthors(text string) []string {
	text = collapse(text)
	if text == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	authors := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			authors = append(authors, part)
		}
	}
	return authors
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
