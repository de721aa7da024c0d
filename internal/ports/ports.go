package ports

import (
	"context"
	"time"

	"TNSBot/internal/domain"
)

// SnapshotFetcher downloads the catalog export and writes it to dest.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, dest string) (string, error)
}

// SnapshotProvider returns a path to a snapshot no older than maxAge.
type SnapshotProvider interface {
	EnsureFresh(ctx context.Context, path string, maxAge time.Duration) (string, error)
}

// CatalogFilter selects recently modified records of interest from a snapshot.
type CatalogFilter interface {
	Filter(path string, maxAge time.Duration, now time.Time) ([]domain.TransientRecord, error)
}

// AstronoteSource scrapes astronotes mentioning TDEs from a listing page.
type AstronoteSource interface {
	Scrape(ctx context.Context, listingURL string) ([]domain.AstronoteSummary, error)
}

// Notifier posts a text message to a chat channel.
type Notifier interface {
	PostMessage(ctx context.Context, channel, text, username string) error
}

// ReportRenderer composes the chat message; an empty string means nothing to report.
type ReportRenderer interface {
	Render(records []domain.TransientRecord, notes []domain.AstronoteSummary) string
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
