package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"quicklook-service/internal/config"
	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
	"quicklook-service/internal/metrics"
)

type archiveClient struct {
	baseURL string
	client  *http.Client
}

// NewArchiveClient creates an HTTP client for the observation archive
// inventory service.
func NewArchiveClient(cfg *config.ArchiveConfig) ports.ArchiveClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &archiveClient{
		baseURL: cfg.URL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type inventoryResponse struct {
	Status string                 `json:"status"`
	Data   []ports.InventoryEntry `json:"data"`
}

func (c *archiveClient) Inventory(ctx context.Context, query ports.InventoryQuery) ([]ports.InventoryEntry, error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("archive", "inventory", time.Since(start)) }()

	params := url.Values{}
	params.Set("instrument", string(query.Instrument))
	params.Set("apername", query.Aperture)
	params.Set("date_obs_mjd_min", strconv.FormatFloat(query.StartMJD, 'f', -1, 64))
	params.Set("date_obs_mjd_max", strconv.FormatFloat(query.EndMJD, 'f', -1, 64))

	reqURL := fmt.Sprintf("%s/api/v0.1/inventory?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArchiveUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrArchiveUnavailable, resp.StatusCode)
	}

	var body inventoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode inventory response: %w", err)
	}
	return body.Data, nil
}
