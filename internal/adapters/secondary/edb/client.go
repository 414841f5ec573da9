package edb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"quicklook-service/internal/config"
	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
	"quicklook-service/internal/metrics"
)

// Client talks to the DMS engineering database mnemonic services over
// HTTP. The inventory is large and quasi-static (~15000 rows) and is
// cached after the first successful fetch.
type Client struct {
	baseURL string
	token   string
	client  *http.Client

	mu        sync.Mutex
	inventory []ports.InventoryMnemonic
}

func NewClient(cfg *config.EDBConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: cfg.URL,
		token:   cfg.Token,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type metaResponse struct {
	Status       string `json:"status"`
	Msg          string `json:"msg"`
	TlmMnemonics []struct {
		AllPoints int `json:"AllPoints"`
	} `json:"TlmMnemonics"`
}

type valuesResponse struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
	Data   []struct {
		ObsTime string  `json:"theTime"`
		Value   float64 `json:"EUValue"`
	} `json:"data"`
}

type infoResponse struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
	Data   []struct {
		TlmMnemonic string `json:"tlmMnemonic"`
		Description string `json:"description"`
		Subsystem   string `json:"subsystem"`
		Unit        string `json:"unit"`
	} `json:"data"`
}

type inventoryResponse struct {
	Status string                    `json:"status"`
	Msg    string                    `json:"msg"`
	Data   []ports.InventoryMnemonic `json:"data"`
}

const obsTimeLayout = "2006-01-02 15:04:05.000000"

func (c *Client) Meta(ctx context.Context, mnemonic string) (domain.MnemonicMeta, error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("edb", "meta", time.Since(start)) }()

	var body metaResponse
	params := url.Values{"mnemonic": {mnemonic}}
	if err := c.get(ctx, "/meta", params, &body); err != nil {
		return domain.MnemonicMeta{}, err
	}
	if err := checkStatus(body.Status, body.Msg); err != nil {
		return domain.MnemonicMeta{}, err
	}
	if len(body.TlmMnemonics) == 0 {
		return domain.MnemonicMeta{}, domain.ErrMnemonicNotFound
	}
	return domain.MnemonicMeta{AllPoints: body.TlmMnemonics[0].AllPoints != 0}, nil
}

func (c *Client) Values(ctx context.Context, mnemonic string, start, end time.Time, bracket bool) ([]ports.TelemetrySample, error) {
	began := time.Now()
	defer func() { metrics.ObserveUpstream("edb", "values", time.Since(began)) }()

	params := url.Values{}
	params.Set("mnemonic", mnemonic)
	params.Set("start", start.UTC().Format(time.RFC3339))
	params.Set("end", end.UTC().Format(time.RFC3339))
	params.Set("bracket", strconv.FormatBool(bracket))

	var body valuesResponse
	if err := c.get(ctx, "/data", params, &body); err != nil {
		return nil, err
	}
	if err := checkStatus(body.Status, body.Msg); err != nil {
		return nil, err
	}

	samples := make([]ports.TelemetrySample, 0, len(body.Data))
	for _, row := range body.Data {
		t, err := time.Parse(obsTimeLayout, row.ObsTime)
		if err != nil {
			return nil, fmt.Errorf("parse observation time %q: %w", row.ObsTime, err)
		}
		samples = append(samples, ports.TelemetrySample{Time: t.UTC(), Value: row.Value})
	}
	return samples, nil
}

func (c *Client) Info(ctx context.Context, mnemonic string) (domain.MnemonicInfo, error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("edb", "info", time.Since(start)) }()

	var body infoResponse
	params := url.Values{"mnemonic": {mnemonic}}
	if err := c.get(ctx, "/dictionary", params, &body); err != nil {
		return domain.MnemonicInfo{}, err
	}
	if err := checkStatus(body.Status, body.Msg); err != nil {
		return domain.MnemonicInfo{}, err
	}
	if len(body.Data) == 0 {
		return domain.MnemonicInfo{}, domain.ErrMnemonicNotFound
	}
	d := body.Data[0]
	return domain.MnemonicInfo{
		Mnemonic:    d.TlmMnemonic,
		Description: d.Description,
		Category:    d.Subsystem,
		Unit:        d.Unit,
	}, nil
}

func (c *Client) Inventory(ctx context.Context) ([]ports.InventoryMnemonic, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inventory != nil {
		return c.inventory, nil
	}

	start := time.Now()
	defer func() { metrics.ObserveUpstream("edb", "inventory", time.Since(start)) }()

	var body inventoryResponse
	if err := c.get(ctx, "/inventory", url.Values{}, &body); err != nil {
		return nil, err
	}
	if err := checkStatus(body.Status, body.Msg); err != nil {
		return nil, err
	}

	c.inventory = body.Data
	return c.inventory, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEDBUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrEDBUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode engineering database response: %w", err)
	}
	return nil
}

func checkStatus(status, msg string) error {
	if status != "COMPLETE" {
		return fmt.Errorf("%w: status %s, message %s", domain.ErrQueryIncomplete, status, msg)
	}
	return nil
}
