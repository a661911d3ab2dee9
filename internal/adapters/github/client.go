// Package github implements the remote store over the GitHub contents API.
package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/example/maintlog/internal/ports/secondary"
)

// DefaultAPIURL is the public GitHub API endpoint.
const DefaultAPIURL = "https://api.github.com"

// Config holds the connection settings of a Client.
type Config struct {
	APIURL  string // Optional: defaults to DefaultAPIURL
	Repo    string // owner/name
	Branch  string // Optional: the repository default branch when empty
	Token   string
	Timeout time.Duration
}

// Client implements secondary.RemoteStore with the GitHub contents API.
type Client struct {
	httpClient *resty.Client
	repo       string
	branch     string
	logger     *zap.Logger
}

type contentResponse struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int64  `json:"size"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

type blobResponse struct {
	SHA      string `json:"sha"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

type apiError struct {
	Message string `json:"message"`
}

// NewClient creates a GitHub contents client. Requests are never retried.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	owner, name, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("invalid repository %q (expected owner/name)", cfg.Repo)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("github token is required")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.Token).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", "2022-11-28")

	return &Client{
		httpClient: client,
		repo:       cfg.Repo,
		branch:     cfg.Branch,
		logger:     logger,
	}, nil
}

// Fetch downloads the file at path.
func (c *Client) Fetch(ctx context.Context, path string) (*secondary.RemoteFile, error) {
	var content contentResponse
	var apiErr apiError
	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(&content).
		SetError(&apiErr)
	if c.branch != "" {
		req.SetQueryParam("ref", c.branch)
	}

	resp, err := req.Get(c.contentsURL(path))
	if err != nil {
		c.logger.Error("GitHub contents request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, c.statusError("fetch", path, resp.StatusCode(), apiErr.Message)
	}
	if content.Type != "" && content.Type != "file" {
		return nil, fmt.Errorf("remote path %s is a %s, not a file", path, content.Type)
	}

	var data []byte
	if content.Encoding == "none" || (content.Content == "" && content.Size > 0) {
		data, err = c.fetchBlob(ctx, content.SHA)
	} else {
		data, err = decodeContent(content.Content)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	c.logger.Debug("Fetched remote file",
		zap.String("path", path),
		zap.String("sha", content.SHA),
		zap.Int("bytes", len(data)),
	)
	return &secondary.RemoteFile{Path: path, Content: data, Revision: content.SHA}, nil
}

// fetchBlob downloads a file too large for the contents endpoint.
func (c *Client) fetchBlob(ctx context.Context, sha string) ([]byte, error) {
	var blob blobResponse
	var apiErr apiError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&blob).
		SetError(&apiErr).
		Get("/repos/" + c.repo + "/git/blobs/" + url.PathEscape(sha))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blob %s: %w", sha, err)
	}
	if resp.IsError() {
		return nil, c.statusError("fetch blob", sha, resp.StatusCode(), apiErr.Message)
	}
	if blob.Encoding != "" && blob.Encoding != "base64" {
		return nil, fmt.Errorf("unsupported blob encoding %q", blob.Encoding)
	}
	return decodeContent(blob.Content)
}

// Put replaces the file at path and returns its new revision.
func (c *Client) Put(ctx context.Context, path string, content []byte, revision, message string) (string, error) {
	body := putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     revision,
		Branch:  c.branch,
	}

	var result putResponse
	var apiErr apiError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Put(c.contentsURL(path))
	if err != nil {
		c.logger.Error("GitHub contents update failed", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("failed to put %s: %w", path, err)
	}
	if resp.IsError() {
		return "", c.statusError("put", path, resp.StatusCode(), apiErr.Message)
	}

	c.logger.Info("Updated remote file",
		zap.String("path", path),
		zap.String("previous_sha", revision),
		zap.String("sha", result.Content.SHA),
		zap.Int("status_code", resp.StatusCode()),
	)
	return result.Content.SHA, nil
}

func (c *Client) contentsURL(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/repos/" + c.repo + "/contents/" + strings.Join(segments, "/")
}

func (c *Client) statusError(op, path string, status int, message string) error {
	c.logger.Warn("GitHub API returned error",
		zap.String("op", op),
		zap.String("path", path),
		zap.Int("status_code", status),
		zap.String("message", message),
	)
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", secondary.ErrRemoteNotFound, path)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w (status %d): %s", secondary.ErrRemoteUnauthorized, status, message)
	case status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w (status %d): %s", secondary.ErrRemoteConflict, status, message)
	default:
		return fmt.Errorf("github %s %s returned status %d: %s", op, path, status, message)
	}
}

// decodeContent decodes the line-wrapped base64 the API returns.
func decodeContent(s string) ([]byte, error) {
	s = strings.NewReplacer("\n", "", "\r", "").Replace(s)
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	return data, nil
}

var _ secondary.RemoteStore = (*Client)(nil)
