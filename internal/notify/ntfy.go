package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// NtfyClient implements the ntfy notification client.
type NtfyClient struct {
	httpClient *http.Client
	config     NtfyConfig
	message    Message
	logger     *zap.Logger
}

// NewNtfyClient creates a new ntfy client.
func NewNtfyClient(cfg NtfyConfig, msg Message, logger *zap.Logger) *NtfyClient {
	return &NtfyClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		config:  cfg,
		message: msg,
		logger:  logger,
	}
}

// NotifyMatch publishes the match message to the configured topic.
func (c *NtfyClient) NotifyMatch(ctx context.Context) error {
	if err := c.send(ctx, c.message.Title(), c.message.Body, c.config.Tags, c.config.Priority); err != nil {
		return dispatchError("ntfy", err)
	}
	return nil
}

func (c *NtfyClient) send(ctx context.Context, title, message, tags, priority string) error {
	url := fmt.Sprintf("%s/%s", strings.TrimSuffix(c.config.Server, "/"), c.config.Topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Title", title)
	if priority != "" {
		req.Header.Set("Priority", priority)
	}
	if tags != "" {
		req.Header.Set("Tags", tags)
	}

	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain response body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("ntfy rejected notification",
			zap.Int("status", resp.StatusCode),
			zap.String("url", url),
		)
		return fmt.Errorf("notification failed with status: %d", resp.StatusCode)
	}

	c.logger.Debug("notification sent", zap.String("title", title), zap.String("transport", "ntfy"))
	return nil
}
