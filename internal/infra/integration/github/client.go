package github

import (
	"context"
	"fmt"

	gogithub "github.com/google/go-github/v66/github"
	"go.uber.org/zap"

	"github.com/robinblocks/site/internal/entity"
)

// Client files issues on a single repository.
type Client struct {
	gh     *gogithub.Client
	owner  string
	repo   string
	logger *zap.Logger
}

func NewClient(token, owner, repo string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		gh:     gogithub.NewClient(nil).WithAuthToken(token),
		owner:  owner,
		repo:   repo,
		logger: logger,
	}
}

// CreateIssue opens an issue from s and returns its web URL.
func (c *Client) CreateIssue(ctx context.Context, s entity.Suggestion) (string, error) {
	issue, _, err := c.gh.Issues.Create(ctx, c.owner, c.repo, &gogithub.IssueRequest{
		Title: gogithub.String(s.Title),
		Body:  gogithub.String(s.Body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create issue on %s/%s: %w", c.owner, c.repo, err)
	}

	c.logger.Info("issue created",
		zap.Int("number", issue.GetNumber()),
		zap.String("url", issue.GetHTMLURL()),
	)
	return issue.GetHTMLURL(), nil
}
