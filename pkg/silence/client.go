// SPDX-License-Identifier: GPL-3.0-or-later

package silence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/netdata/netdata/go/traceview/logger"
	"github.com/netdata/netdata/go/traceview/pkg/web"
)

const maxResponseSize = 1 << 20

// Client submits silences to an Alertmanager data source through the Grafana API.
type Client struct {
	*logger.Logger

	cfg        web.HTTPConfig
	httpClient *http.Client
}

func NewClient(cfg web.HTTPConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("alertmanager: 'url' not set")
	}

	httpClient, err := web.NewHTTPClient(cfg.ClientConfig)
	if err != nil {
		return nil, fmt.Errorf("alertmanager: %w", err)
	}

	return &Client{
		Logger:     logger.New().With(slog.String("component", "silence")),
		cfg:        cfg,
		httpClient: httpClient,
	}, nil
}

// Create posts the payload to the silences endpoint of the given Alertmanager source
// and returns the ID of the created (or updated) silence.
func (c *Client) Create(ctx context.Context, source string, payload CreatePayload) (string, error) {
	if source == "" {
		return "", errors.New("alertmanager: source name not set")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	reqCfg := c.cfg.RequestConfig.Copy()
	reqCfg.Method = http.MethodPost
	reqCfg.Body = string(body)
	if reqCfg.Headers == nil {
		reqCfg.Headers = make(map[string]string)
	}
	reqCfg.Headers["Content-Type"] = "application/json"

	req, err := web.NewHTTPRequestWithPath(ctx, reqCfg, "/api/alertmanager/"+source+"/api/v2/silences")
	if err != nil {
		return "", fmt.Errorf("alertmanager: %w", err)
	}

	c.Debugf("creating silence: POST %s", req.URL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("alertmanager: %w", err)
	}
	defer closeBody(resp)

	bs, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("alertmanager: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("alertmanager: '%s' returned HTTP status code %d: %s", req.URL, resp.StatusCode, responseMessage(bs))
	}

	id := gjson.GetBytes(bs, "silenceID").String()
	if id == "" {
		return "", fmt.Errorf("alertmanager: response has no silenceID: %s", responseMessage(bs))
	}

	c.Infof("silence '%s' saved (source '%s')", id, source)

	return id, nil
}

func responseMessage(bs []byte) string {
	if msg := gjson.GetBytes(bs, "message"); msg.Exists() {
		return msg.String()
	}
	return strings.TrimSpace(string(bs))
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
}
