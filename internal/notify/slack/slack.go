// Package slack posts pull request announcements to a Slack workflow webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/regex"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxElapsed = 30 * time.Second
	none              = "None"
)

// Payload is the variable set expected by the workflow webhook.
type Payload struct {
	Author            string `json:"author"`
	Reviewers         string `json:"reviewers"`
	PullRequestLinks  string `json:"pull_request_links"`
	CodeReviewChannel string `json:"code_review_channel"`
	Description       string `json:"description"`
	Repository        string `json:"repository"`
	TicketsRelease    string `json:"tickets_release"`
}

// Message is what a creation run knows about itself.
type Message struct {
	Repository  string
	Author      string
	Reviewers   []string
	Results     []models.PRResult
	Description string
	Tickets     []string
}

type Notifier struct {
	cfg        config.NotifyConfig
	httpClient *http.Client
	newBackOff func() backoff.BackOff
}

type Option func(*Notifier)

func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		n.httpClient = c
	}
}

// WithBackOff replaces the retry policy. The factory must return a fresh instance per call.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(n *Notifier) {
		n.newBackOff = f
	}
}

func NewNotifier(cfg config.NotifyConfig, opts ...Option) *Notifier {
	n := &Notifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultTimeout},
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.MaxElapsedTime = defaultMaxElapsed
			return bo
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Enabled reports whether a message for repo would be sent.
func (n *Notifier) Enabled(repo string) bool {
	if n.cfg.SlackWebhookURL == "" {
		return false
	}
	c := config.Config{Notify: n.cfg}
	return c.IsRepoAllowed(repo)
}

// Send posts msg when notifications are enabled for its repository. Client
// errors are not retried; server errors and transport failures are.
func (n *Notifier) Send(ctx context.Context, msg Message) error {
	log := logger.FromContext(ctx)

	if !n.Enabled(msg.Repository) {
		log.Debug("slack notification skipped", "repository", msg.Repository)
		return nil
	}

	payload := BuildPayload(msg, n.cfg)
	body, err := json.Marshal(payload)
	if err != nil {
		return domainErrors.ErrNotifyFailed.WithError(err)
	}

	start := time.Now()
	attempts := 0
	op := func() error {
		attempts++
		return n.post(ctx, body)
	}

	if err := backoff.Retry(op, backoff.WithContext(n.newBackOff(), ctx)); err != nil {
		log.Warn("slack notification failed",
			"repository", msg.Repository,
			"attempts", attempts,
			"error", err)
		return domainErrors.ErrNotifyFailed.
			WithError(err).
			WithContext("attempts", attempts)
	}

	log.Info("slack notification sent",
		"repository", msg.Repository,
		"attempts", attempts,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (n *Notifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.SlackWebhookURL, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	default:
		return backoff.Permanent(fmt.Errorf("webhook returned status %d", resp.StatusCode))
	}
}

// BuildPayload renders msg into the webhook variables.
func BuildPayload(msg Message, cfg config.NotifyConfig) Payload {
	reviewers := make([]string, 0, len(msg.Reviewers))
	for _, r := range msg.Reviewers {
		reviewers = append(reviewers, ResolveSlackID(r, cfg.SlackUserMap))
	}

	var links []string
	for _, res := range msg.Results {
		if !res.Created() {
			continue
		}
		target := res.Target
		if target == "" {
			target = "main"
		}
		links = append(links, fmt.Sprintf("<%s|PR to %s>", res.URL, target))
	}

	return Payload{
		Author:            ResolveSlackID(msg.Author, cfg.SlackUserMap),
		Reviewers:         joinOr(reviewers, ", ", none),
		PullRequestLinks:  joinOr(links, "\n", "No PRs created"),
		CodeReviewChannel: cfg.CodeReviewChannel,
		Description:       msg.Description,
		Repository:        msg.Repository,
		TicketsRelease:    joinOr(msg.Tickets, ", ", none),
	}
}

// ResolveSlackID maps a git identity or GitHub handle to a Slack member id.
// Unknown identities and values that already look like member ids are returned as is.
func ResolveSlackID(identity string, userMap map[string]string) string {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return ""
	}
	if regex.SlackMemberID.MatchString(identity) {
		return identity
	}

	key := identity
	if m := regex.EmailInBrackets.FindStringSubmatch(identity); m != nil {
		key = m[1]
	}
	if id, ok := userMap[key]; ok && id != "" {
		return id
	}
	if id, ok := userMap[identity]; ok && id != "" {
		return id
	}
	if id, ok := userMap[strings.TrimPrefix(identity, "@")]; ok && id != "" {
		return id
	}
	return identity
}

func joinOr(items []string, sep, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, sep)
}
