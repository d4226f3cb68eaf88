// Package fetch resolves the CT log list source: the bundled default, a
// local file, or a URL fetched over a retrying HTTP client.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ivoronin/sctvet/internal/ctlog"
)

// LatestLogsURL is the well-known location of Google's all_logs_list.json,
// used by --latest-logs.
const LatestLogsURL = "https://www.gstatic.com/ct/log_list/v2/all_logs_list.json"

// FromFile reads a log-list JSON document from a local path.
func FromFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from an explicit CLI flag.
	if err != nil {
		return nil, fmt.Errorf("fetch: read log list %s: %w", path, err)
	}
	return data, nil
}

// FromURL downloads a log-list JSON document, retrying transient failures.
func FromURL(ctx context.Context, url string) ([]byte, error) {
	client := retryablehttp.NewClient()
	client.Logger = nil // the driver's slog output covers this; keep stdout clean
	client.RetryMax = 3

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request for %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: GET %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: read response from %s: %w", url, err)
	}
	return data, nil
}

// Source selects where the log list comes from: exactly one of File or
// Latest may be set; neither set means the bundled default.
type Source struct {
	File   string
	Latest bool
}

// Load resolves src into a parsed Registry.
func Load(ctx context.Context, src Source) (*ctlog.Registry, error) {
	var (
		data []byte
		err  error
	)

	switch {
	case src.File != "" && src.Latest:
		return nil, fmt.Errorf("fetch: --log-list and --latest-logs are mutually exclusive")
	case src.File != "":
		data, err = FromFile(src.File)
	case src.Latest:
		slog.Info("fetching latest CT log list", "url", LatestLogsURL)
		data, err = FromURL(ctx, LatestLogsURL)
	default:
		data = ctlog.Bundled()
	}
	if err != nil {
		return nil, err
	}

	reg, err := ctlog.ParseList(data)
	if err != nil {
		return nil, fmt.Errorf("fetch: parse log list: %w", err)
	}
	slog.Debug("loaded CT log list", "count", reg.Len())
	return reg, nil
}
