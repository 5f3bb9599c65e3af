// Package suggest asks a language model for one improvement to the signup flow
// and files it as an issue.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/robinblocks/site/internal/entity"
)

const (
	titleMarker       = "**Suggestion:**"
	descriptionMarker = "**Description:**"
)

// DefaultFiles are the sources sent to the model, relative to the repo root.
var DefaultFiles = []string{
	"internal/web/signup/form.go",
	"internal/web/templates/index.html",
	"internal/usecase/subscribe.go",
}

var ErrEmptyTitle = errors.New("suggestion has no title")

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type IssueFiler interface {
	CreateIssue(ctx context.Context, s entity.Suggestion) (string, error)
}

// BuildContext concatenates files as "--- <path> ---" sections.
func BuildContext(root string, files []string) (string, error) {
	var b strings.Builder
	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(root, file))
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		fmt.Fprintf(&b, "--- %s ---\n", file)
		b.Write(content)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func BuildPrompt(codeContext string) string {
	return `Analyze the following Go codebase for an email signup form and suggest a single, small, actionable improvement to increase signups. The improvement can be a UI/UX change, a performance optimization, or a new feature.

` + codeContext + `
Provide the suggestion in the following format:
` + titleMarker + ` A brief title for the improvement.
` + descriptionMarker + ` A detailed description of the improvement and why it would be beneficial.
`
}

// ParseSuggestion splits model output into an issue title and body. The first
// line is the title; the rest, minus the first description marker, is the body.
func ParseSuggestion(text string) (entity.Suggestion, error) {
	first, rest, _ := strings.Cut(strings.TrimSpace(text), "\n")

	title := strings.TrimSpace(strings.Replace(first, titleMarker, "", 1))
	if title == "" {
		return entity.Suggestion{}, ErrEmptyTitle
	}

	body := strings.TrimSpace(strings.Replace(rest, descriptionMarker, "", 1))
	return entity.Suggestion{Title: title, Body: body}, nil
}

type Runner struct {
	Generator Generator
	Issues    IssueFiler
	Logger    *zap.Logger
	Root      string
	Files     []string
	DryRun    bool
}

// Result is what one run produced. URL is empty on a dry run.
type Result struct {
	Suggestion entity.Suggestion
	URL        string
}

func (r *Runner) Run(ctx context.Context) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	files := r.Files
	if len(files) == 0 {
		files = DefaultFiles
	}

	codeContext, err := BuildContext(r.Root, files)
	if err != nil {
		return nil, err
	}

	text, err := r.Generator.Generate(ctx, BuildPrompt(codeContext))
	if err != nil {
		return nil, err
	}

	suggestion, err := ParseSuggestion(text)
	if err != nil {
		logger.Error("unusable model output", zap.String("text", text))
		return nil, err
	}

	if r.DryRun {
		logger.Info("dry run, not filing issue", zap.String("title", suggestion.Title))
		return &Result{Suggestion: suggestion}, nil
	}

	url, err := r.Issues.CreateIssue(ctx, suggestion)
	if err != nil {
		return nil, err
	}
	logger.Info("successfully created GitHub issue", zap.String("title", suggestion.Title), zap.String("url", url))
	return &Result{Suggestion: suggestion, URL: url}, nil
}
