package gracedb

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"gracedbinfo/domain/core"
	"gracedbinfo/internal"
	"gracedbinfo/internal/errors"
	"gracedbinfo/ports"
)

const serviceName = "GraceDB"

// Client writes log messages to GraceDB events and superevents
type Client struct {
	config     ClientConfig
	base       *url.URL
	httpClient *http.Client
	logger     *internal.Logger
}

var _ ports.EventLogWriter = (*Client)(nil)

// NewClient creates a client. The X.509 pair, when configured, is loaded
// here so a bad certificate fails before any request is made.
func NewClient(cfg ClientConfig, logger *internal.Logger) (*Client, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgent
	}

	base, err := url.Parse(cfg.ServiceURL)
	if err != nil || !base.IsAbs() {
		return nil, errors.ConfigInvalid(fmt.Sprintf("invalid GraceDB service URL %q", cfg.ServiceURL))
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to load X.509 credentials: %w", err))
		}
		transport.TLSClientConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	return &Client{
		config: cfg,
		base:   base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: logger,
	}, nil
}

// WriteLog implements ports.EventLogWriter. filename, when set, is attached
// as the log message's file.
func (c *Client) WriteLog(ctx context.Context, eventID, message, filename, tag string) (*ports.LogEntry, error) {
	id, err := core.ParseEventID(eventID)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	body, contentType, err := buildLogForm(message, filename, tag)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build log message")
	}

	endpoint := c.LogEndpoint(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	requestID := core.NewRequestID()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-ID", requestID.String())
	c.authenticate(req)

	c.logger.Info("[GraceDB] POST %s tag=%s auth=%s request=%s", endpoint, tag, c.config.AuthMethod(), requestID)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("POST %s: %w", endpoint, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("failed to read response: %w", err))
	}
	c.logger.Trace("[GraceDB] response %d request=%s: %s", resp.StatusCode, requestID, respBody)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.ExternalServiceError(serviceName,
			fmt.Errorf("POST %s returned status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	entry := parseLogEntry(respBody)
	c.logger.Info("[GraceDB] %s log message N=%d created in %.2fms", id, entry.Number, float64(time.Since(start).Nanoseconds())/1e6)
	return entry, nil
}

// LogEndpoint is the collection URL log messages for id are posted to
func (c *Client) LogEndpoint(id core.EventID) string {
	if id.IsSuperevent() {
		return c.base.JoinPath("superevents", id.String(), "logs").String() + "/"
	}
	return c.base.JoinPath("events", id.String(), "log").String() + "/"
}

func (c *Client) authenticate(req *http.Request) {
	switch c.config.AuthMethod() {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	case "basic":
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}
}

// buildLogForm encodes the multipart form GraceDB expects for a log message
func buildLogForm(message, filename, tag string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("comment", message); err != nil {
		return nil, "", err
	}
	if tag != "" {
		if err := w.WriteField("tagname", tag); err != nil {
			return nil, "", err
		}
	}
	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		part, err := w.CreateFormFile("upload", filepath.Base(filename))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var createdLayouts = []string{
	"2006-01-02 15:04:05 MST",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
}

// parseLogEntry reads the fields we report from a created log message.
// Missing fields stay zero; the post already succeeded.
func parseLogEntry(body []byte) *ports.LogEntry {
	res := gjson.ParseBytes(body)
	entry := &ports.LogEntry{
		Number:   int(res.Get("N").Int()),
		Comment:  res.Get("comment").String(),
		Filename: res.Get("filename").String(),
	}
	for _, t := range res.Get("tag_names").Array() {
		entry.TagNames = append(entry.TagNames, t.String())
	}
	if issuer := res.Get("issuer"); issuer.IsObject() {
		entry.Creator = issuer.Get("username").String()
	} else {
		entry.Creator = issuer.String()
	}
	if created := res.Get("created").String(); created != "" {
		for _, layout := range createdLayouts {
			if ts, err := time.Parse(layout, created); err == nil {
				entry.CreatedAt = ts
				break
			}
		}
	}
	return entry
}
