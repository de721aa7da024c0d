package report

import (
	"net/url"
	"strconv"
	"strings"

	"TNSBot/internal/domain"
)

const (
	missing         = "N/A"
	astronoteHeader = "New AstroNotes mentioning TDEs:"
)

// Renderer turns filtered catalog records and astronotes into chat text.
// Output depends only on its input.
type Renderer struct {
	interest   domain.InterestSet
	windowDays float64
	baseURL    string
}

// NewRenderer binds the labels and window quoted in the catalog header and
// the site used for object permalinks.
func NewRenderer(interest domain.InterestSet, windowDays float64, baseURL string) *Renderer {
	return &Renderer{
		interest:   interest,
		windowDays: windowDays,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// Render joins the non-empty sections. No records and no notes render as "".
func (r *Renderer) Render(records []domain.TransientRecord, notes []domain.AstronoteSummary) string {
	var sections []string
	if s := r.RenderCatalog(records); s != "" {
		sections = append(sections, s)
	}
	if s := r.RenderAstronotes(notes); s != "" {
		sections = append(sections, s)
	}
	return strings.Join(sections, "\n")
}

// RenderCatalog renders one block per record under a header line.
func (r *Renderer) RenderCatalog(records []domain.TransientRecord) string {
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("The following transients of interest (")
	b.WriteString(strings.Join(r.interest.Labels(), ", "))
	b.WriteString(") were recently modified in the last ")
	b.WriteString(strconv.FormatFloat(r.windowDays, 'f', -1, 64))
	b.WriteString(" days on the TNS:\n")

	for _, rec := range records {
		b.WriteString("\n")
		line(&b, "", "Name", rec.FullName())
		line(&b, "\t", "Alternate Names", strings.Join(rec.InternalNames, ", "))
		line(&b, "\t", "Classified Type", rec.Type)
		line(&b, "\t", "Coordinates", FormatCoordinates(rec.RA, rec.Dec))
		line(&b, "\t", "Redshift", formatRedshift(rec.Redshift))
		line(&b, "\t", "TNS Link", r.ObjectURL(rec.Name))
		line(&b, "\t", "Discovery ADS Bibcode", rec.DiscoveryBibcode)
		line(&b, "\t", "Classification ADS Bibcode", rec.ClassificationBibcodes)
	}
	return b.String()
}

// RenderAstronotes renders one block per note, listing its objects of interest.
func (r *Renderer) RenderAstronotes(notes []domain.AstronoteSummary) string {
	if len(notes) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(astronoteHeader)
	b.WriteString("\n")

	for _, note := range notes {
		b.WriteString("\n")
		line(&b, "", "Title", note.Title)
		line(&b, "\t", "Authors", strings.Join(note.Authors, ", "))
		line(&b, "\t", "Link", note.Link)
		if len(note.Objects) == 0 {
			line(&b, "\t", "Objects", "none of interest listed")
			continue
		}
		b.WriteString("\tObjects:\n")
		for _, obj := range note.Objects {
			b.WriteString("\t- Name: ")
			b.WriteString(orMissing(obj.Name))
			b.WriteString(" | Coordinates: ")
			b.WriteString(orMissing(strings.TrimSpace(obj.RA + " " + obj.Dec)))
			b.WriteString(" | Type: ")
			b.WriteString(orMissing(obj.Classification))
			b.WriteString(" | Redshift: ")
			b.WriteString(formatRedshift(obj.Redshift))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ObjectURL is the TNS permalink of an object name such as "2024abc".
func (r *Renderer) ObjectURL(name string) string {
	return r.baseURL + "/object/" + url.PathEscape(name)
}

func line(b *strings.Builder, indent, label, value string) {
	b.WriteString(indent)
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(orMissing(value))
	b.WriteString("\n")
}

func orMissing(value string) string {
	if strings.TrimSpace(value) == "" {
		return missing
	}
	return value
}

func formatRedshift(z *float64) string {
	if z == nil {
		return missing
	}
	return strconv.FormatFloat(*z, 'f', -1, 64)
}
