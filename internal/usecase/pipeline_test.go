package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"TNSBot/internal/domain"
	"TNSBot/internal/report"
)

type fakeSnapshots struct {
	err   error
	calls int
}

func (f *fakeSnapshots) EnsureFresh(_ context.Context, path string, _ time.Duration) (string, error) {
	f.calls++
	return path, f.err
}

type fakeCatalog struct {
	records []domain.TransientRecord
	err     error
	now     time.Time
	calls   int
}

func (f *fakeCatalog) Filter(_ string, _ time.Duration, now time.Time) ([]domain.TransientRecord, error) {
	f.calls++
	f.now = now
	return f.records, f.err
}

type fakeAstronotes struct {
	notes []domain.AstronoteSummary
	err   error
	calls int
}

func (f *fakeAstronotes) Scrape(context.Context, string) ([]domain.AstronoteSummary, error) {
	f.calls++
	return f.notes, f.err
}

type sentMessage struct {
	channel, text, username string
}

type fakeNotifier struct {
	sent []sentMessage
	err  error
}

func (f *fakeNotifier) PostMessage(_ context.Context, channel, text, username string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{channel, text, username})
	return nil
}

type fixture struct {
	snapshots  *fakeSnapshots
	catalog    *fakeCatalog
	astronotes *fakeAstronotes
	notifier   *fakeNotifier
	output     *bytes.Buffer
	pipeline   *Pipeline
}

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		snapshots:  &fakeSnapshots{},
		catalog:    &fakeCatalog{},
		astronotes: &fakeAstronotes{},
		notifier:   &fakeNotifier{},
		output:     &bytes.Buffer{},
	}
	f.pipeline = NewPipeline(PipelineDeps{
		Snapshots:  f.snapshots,
		Catalog:    f.catalog,
		Astronotes: f.astronotes,
		Renderer:   report.NewRenderer(domain.NewInterestSet(domain.DefaultInterest...), 1, "https://www.wis-tns.org"),
		Notifier:   f.notifier,
		Output:     f.output,
		Clock:      func() time.Time { return fixedNow },
	})
	return f
}

var options = RunOptions{
	SnapshotPath: "tns_public_objects.csv",
	MaxAge:       24 * time.Hour,
	ListingURL:   "https://www.wis-tns.org/astronotes",
	Channel:      "alexander-group",
	Username:     "TNS TDE Bot",
}

var tde = domain.TransientRecord{Prefix: "TDE", Name: "2024abc", Type: "TDE", RA: 150, Dec: 2, LastModified: fixedNow.Add(-2 * time.Hour)}

var note = domain.AstronoteSummary{Title: "A TDE", Link: "https://www.wis-tns.org/astronotes/astronote/2024-1"}

func TestRunNoUpdatesSkipsDelivery(t *testing.T) {
	t.Parallel()

	f := newFixture()
	out, err := f.pipeline.Run(context.Background(), options)
	require.NoError(t, err)
	require.Equal(t, DeliverySkipped, out.Delivery)
	require.Empty(t, out.Message)
	require.Empty(t, f.notifier.sent)
	require.False(t, out.Degraded())
	require.Equal(t, fixedNow, f.catalog.now)
}

func TestRunDeliversReport(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.catalog.records = []domain.TransientRecord{tde}
	f.astronotes.notes = []domain.AstronoteSummary{note}

	out, err := f.pipeline.Run(context.Background(), options)
	require.NoError(t, err)
	require.Equal(t, DeliverySent, out.Delivery)
	require.Len(t, f.notifier.sent, 1)

	sent := f.notifier.sent[0]
	require.Equal(t, "alexander-group", sent.channel)
	require.Equal(t, "TNS TDE Bot", sent.username)
	require.Equal(t, out.Message, sent.text)
	require.Contains(t, sent.text, "Name: TDE 2024abc")
	require.Contains(t, sent.text, "https://www.wis-tns.org/object/2024abc")
	require.Contains(t, sent.text, "Title: A TDE")
	require.Empty(t, f.output.String())
}

func TestRunDryRunPrints(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.catalog.records = []domain.TransientRecord{tde}

	opts := options
	opts.DryRun = true
	out, err := f.pipeline.Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, DeliveryPrinted, out.Delivery)
	require.Empty(t, f.notifier.sent)
	require.Equal(t, out.Message+"\n", f.output.String())
}

func TestRunSnapshotFailureDegradesCatalog(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.snapshots.err = errors.Join(domain.ErrFetch, errors.New("503"))
	f.catalog.records = []domain.TransientRecord{tde}
	f.astronotes.notes = []domain.AstronoteSummary{note}

	out, err := f.pipeline.Run(context.Background(), options)
	require.NoError(t, err)
	require.Equal(t, StatusDegraded, out.Status(StepSnapshot))
	require.Equal(t, StatusDegraded, out.Status(StepCatalog))
	require.Zero(t, f.catalog.calls)
	require.Equal(t, 1, f.astronotes.calls)
	require.Equal(t, DeliverySent, out.Delivery)
	require.NotContains(t, out.Message, "2024abc")
	require.True(t, strings.HasPrefix(out.Message, "New AstroNotes"))
}

func TestRunConfigurationErrorIsFatal(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.snapshots.err = domain.ErrConfiguration

	out, err := f.pipeline.Run(context.Background(), options)
	require.ErrorIs(t, err, domain.ErrConfiguration)
	require.Equal(t, StatusFatal, out.Status(StepSnapshot))
	require.Zero(t, f.astronotes.calls)
	require.Equal(t, DeliveryNone, out.Delivery)
	require.Empty(t, f.notifier.sent)
}

func TestRunScrapeFailureKeepsCatalog(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.catalog.records = []domain.TransientRecord{tde}
	f.astronotes.err = domain.ErrParse

	out, err := f.pipeline.Run(context.Background(), options)
	require.NoError(t, err)
	require.Equal(t, StatusDegraded, out.Status(StepAstronotes))
	require.Equal(t, DeliverySent, out.Delivery)
	require.NotContains(t, out.Message, "AstroNotes")
}

func TestRunCatalogFailureWithNothingElseSkips(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.catalog.err = domain.ErrParse

	out, err := f.pipeline.Run(context.Background(), options)
	require.NoError(t, err)
	require.Equal(t, StatusDegraded, out.Status(StepCatalog))
	require.Equal(t, DeliverySkipped, out.Delivery)
	require.True(t, out.Degraded())
	require.Empty(t, f.notifier.sent)
}

func TestRunDeliveryFailure(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.catalog.records = []domain.TransientRecord{tde}
	f.notifier.err = errors.New("channel_not_found")

	out, err := f.pipeline.Run(context.Background(), options)
	require.ErrorIs(t, err, domain.ErrDelivery)
	require.Equal(t, DeliveryFailed, out.Delivery)
	require.Equal(t, StatusDegraded, out.Status(StepDelivery))
}

func TestRunCancelledContextIsFatal(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.catalog.records = []domain.TransientRecord{tde}
	f.astronotes.err = context.Canceled

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := f.pipeline.Run(ctx, options)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, StatusFatal, out.Status(StepAstronotes))
	require.Empty(t, f.notifier.sent)
}

func TestStatusStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "degraded", StatusDegraded.String())
	require.Equal(t, "printed", DeliveryPrinted.String())
	require.Equal(t, "none", DeliveryNone.String())
}
