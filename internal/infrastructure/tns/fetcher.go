package tns

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"

	"TNSBot/internal/domain"
	"TNSBot/internal/ports"
)

const exportPath = "/system/files/tns_public_objects/tns_public_objects.csv.zip"

// BotIdentity is the TNS bot registration used to authenticate downloads.
type BotIdentity struct {
	ID     string
	Name   string
	APIKey string
}

// Marker is the User-Agent value TNS expects from bots.
func (b BotIdentity) Marker() string {
	return fmt.Sprintf(`tns_marker{"tns_id": %s, "type": "bot", "name": "%s"}`, b.ID, b.Name)
}

// Fetcher downloads the daily public objects export.
type Fetcher struct {
	client   *resty.Client
	baseURL  string
	identity BotIdentity
}

var _ ports.SnapshotFetcher = (*Fetcher)(nil)

// NewFetcher wires a resty client against the TNS site at baseURL.
func NewFetcher(client *resty.Client, baseURL string, identity BotIdentity) *Fetcher {
	if client == nil {
		client = resty.New()
	}
	return &Fetcher{
		client:   client,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		identity: identity,
	}
}

// Fetch downloads the zipped export next to dest and replaces dest with the
// CSV inside it.
func (f *Fetcher) Fetch(ctx context.Context, dest string) (string, error) {
	if f.identity.ID == "" || f.identity.Name == "" || f.identity.APIKey == "" {
		return "", fmt.Errorf("%w: TNS_BOT_ID, TNS_BOT_NAME and TNS_API_KEY must be set to download the catalog", domain.ErrConfiguration)
	}

	archive := dest + ".zip"
	defer os.Remove(archive)

	res, err := f.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", f.identity.Marker()).
		SetFormData(map[string]string{"api_key": f.identity.APIKey}).
		SetOutput(archive).
		Post(f.baseURL + exportPath)
	if err != nil {
		return "", fmt.Errorf("%w: download catalog: %w", domain.ErrFetch, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("%w: downloading the TNS daily CSV failed with %s", domain.ErrFetch, res.Status())
	}

	if err := extractCSV(archive, dest); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	return dest, nil
}

// extractCSV copies the first .csv entry of archive to dest through a
// temporary file, so readers never see a partial snapshot.
func extractCSV(archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	var entry *zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			entry = f
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("archive %s has no csv entry", archive)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", entry.Name, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
