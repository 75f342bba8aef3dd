// Package client talks to the velcom REST API.
//
// Only the two endpoints the CLI needs are covered: listing repositories and
// uploading a tar archive to the benchmark queue. Every call sends exactly one
// request; retries are left to the caller.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/IPDSnelting/velcom/internal/logger"
	"github.com/go-resty/resty/v2"
)

// AdminUser is the fixed basic-auth user name of the web admin.
const AdminUser = "admin"

const (
	reposPath  = "all-repos"
	uploadPath = "queue/upload/tar"
)

// Config holds the settings for New.
type Config struct {
	// APIURL is the API base URL including its trailing slash.
	APIURL string
	// Password is the web admin token sent as basic-auth password.
	Password string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client is a velcom API client.
type Client struct {
	http     *resty.Client
	base     string
	password string
	log      *slog.Logger
}

// New creates a client for the API at cfg.APIURL.
func New(cfg Config) *Client {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Scope("client"))

	base := cfg.APIURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	r := resty.New().
		SetLogger(restyLogger{log: log}).
		SetDisableWarn(true).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "velcom-cli")
	if cfg.Timeout > 0 {
		r.SetTimeout(cfg.Timeout)
	}

	return &Client{
		http:     r,
		base:     base,
		password: cfg.Password,
		log:      log,
	}
}

// BaseURL returns the API base URL with its trailing slash.
func (c *Client) BaseURL() string {
	return c.base
}

func (c *Client) url(path string) string {
	return c.base + path
}

func (c *Client) checkStatus(op, url string, resp *resty.Response) error {
	c.log.Debug("response",
		slog.String("op", op),
		slog.String("url", url),
		slog.Int("status", resp.StatusCode()),
		slog.Duration("took", resp.Time()))

	if resp.IsSuccess() {
		return nil
	}
	return &NetworkError{
		Op:         op,
		URL:        url,
		StatusCode: resp.StatusCode(),
		Body:       strings.TrimSpace(resp.String()),
	}
}

// decodeID accepts a JSON string or number. Ids are opaque to the client, so
// both are kept as their textual form.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id %s is neither a string nor a number", raw)
	}
	return n.String(), nil
}

// restyLogger routes resty's own messages through slog.
type restyLogger struct {
	log *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
