package parser

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"TNSBot/internal/domain"
	"TNSBot/internal/ports"
	"TNSBot/internal/scanner"
)

// listingToken marks a listing entry as worth a detail fetch. Case-sensitive.
const listingToken = "TDE"

// DocumentFetcher loads an HTML page.
type DocumentFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// AstronoteSource implements ports.AstronoteSource on top of a page layout.
type AstronoteSource struct {
	fetcher     DocumentFetcher
	layout      scanner.Layout
	interest    domain.InterestSet
	concurrency int
	logger      *slog.Logger
}

var _ ports.AstronoteSource = (*AstronoteSource)(nil)

// NewAstronoteSource wires the page fetcher and layout. Detail pages are
// fetched with at most concurrency requests in flight.
func NewAstronoteSource(fetcher DocumentFetcher, layout scanner.Layout, interest domain.InterestSet, concurrency int, log *slog.Logger) *AstronoteSource {
	if concurrency <= 0 {
		concurrency = 1
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &AstronoteSource{
		fetcher:     fetcher,
		layout:      layout,
		interest:    interest,
		concurrency: concurrency,
		logger:      log,
	}
}

// Scrape returns the notes of the listing that mention TDEs, in listing order.
// A note whose detail page cannot be fetched or parsed is logged and left out;
// a note whose objects are all filtered away is still returned.
func (s *AstronoteSource) Scrape(ctx context.Context, listingURL string) ([]domain.AstronoteSummary, error) {
	base, err := url.Parse(listingURL)
	if err != nil {
		return nil, fmt.Errorf("%w: listing url %q: %v", domain.ErrConfiguration, listingURL, err)
	}

	doc, err := s.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("listing: %w", err)
	}

	notes, err := s.layout.ParseListing(doc)
	if err != nil {
		return nil, fmt.Errorf("listing: %w", err)
	}

	tagged := make([]scanner.Note, 0, len(notes))
	for _, note := range notes {
		if strings.Contains(note.Text, listingToken) {
			tagged = append(tagged, note)
		}
	}
	s.logger.Debug("listing parsed", "notes", len(notes), "tagged", len(tagged))
	if len(tagged) == 0 {
		return nil, nil
	}

	results := make([]*domain.AstronoteSummary, len(tagged))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, note := range tagged {
		g.Go(func() error {
			summary, err := s.scrapeNote(gctx, base, note)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("skip astronote", "title", note.Title, "link", note.Link, "error", err)
				return nil
			}
			results[i] = &summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]domain.AstronoteSummary, 0, len(results))
	for _, summary := range results {
		if summary != nil {
			summaries = append(summaries, *summary)
		}
	}
	s.logger.Info("astronotes scraped", "tagged", len(tagged), "reported", len(summaries))
	return summaries, nil
}

func (s *AstronoteSource) scrapeNote(ctx context.Context, base *url.URL, note scanner.Note) (domain.AstronoteSummary, error) {
	if note.Link == "" {
		return domain.AstronoteSummary{}, fmt.Errorf("%w: note has no link", domain.ErrParse)
	}
	ref, err := url.Parse(note.Link)
	if err != nil {
		return domain.AstronoteSummary{}, fmt.Errorf("%w: note link %q: %v", domain.ErrParse, note.Link, err)
	}
	link := base.ResolveReference(ref).String()

	doc, err := s.fetcher.Fetch(ctx, link)
	if err != nil {
		return domain.AstronoteSummary{}, err
	}
	tables, err := s.layout.ParseObjects(doc)
	if err != nil {
		return domain.AstronoteSummary{}, err
	}

	summary := domain.AstronoteSummary{
		Title:   note.Title,
		Authors: note.Authors,
		Link:    link,
	}
	for _, table := range tables {
		summary.Objects = append(summary.Objects, s.objectsOfInterest(table)...)
	}
	return summary, nil
}

func (s *AstronoteSource) objectsOfInterest(table scanner.Table) []domain.AstronoteObject {
	cols := scanner.ResolveColumns(scanner.AstronoteColumns, table.Headers)

	var objects []domain.AstronoteObject
	for _, row := range table.Rows {
		class := cols.Value(row, scanner.FieldClassification)
		if !s.interest.Contains(class) {
			continue
		}
		objects = append(objects, domain.AstronoteObject{
			Name:           cols.Value(row, scanner.FieldName),
			RA:             cols.Value(row, scanner.FieldRA),
			Dec:            cols.Value(row, scanner.FieldDec),
			Classification: class,
			Redshift:       parseRedshift(cols.Value(row, scanner.FieldRedshift)),
		})
	}
	return objects
}

func parseRedshift(value string) *float64 {
	if value == "" {
		return nil
	}
	z, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(z) {
		return nil
	}
	return &z
}
