package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

const (
	githubAPIBaseURL        = "https://api.github.com"
	githubReleasesPerRepo   = 3
	githubAdvisoriesPerRepo = 3
)

// GitHub collects recent releases and published security advisories for a
// configured set of repositories, given as "owner/name" strings.
type GitHub struct {
	BaseURL string
	Repos   []string
	Token   string
	Client  *http.Client
}

func NewGitHub(repos []string, token string) *GitHub {
	return &GitHub{
		BaseURL: githubAPIBaseURL,
		Repos:   repos,
		Token:   token,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *GitHub) Name() string { return "github" }

type githubRelease struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	TagName     string    `json:"tag_name"`
	Body        string    `json:"body"`
	HTMLURL     string    `json:"html_url"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}

type githubAdvisory struct {
	GHSAID      string    `json:"ghsa_id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
}

func (c *GitHub) Collect(ctx context.Context) ([]domain.Event, error) {
	logger := domain.LoggerFromContext(ctx)

	var events []domain.Event
	for _, repo := range c.Repos {
		releases, err := c.fetchReleases(ctx, repo)
		if err != nil {
			logger.WarnContext(ctx, "failed to fetch releases", "repo", repo, "error", err)
			continue
		}

		for _, release := range releases {
			if release.Draft {
				continue
			}

			title := release.Name
			if title == "" {
				title = release.TagName
			}
			title = fmt.Sprintf("%s %s released", repo, title)

			events = append(events, domain.Event{
				ID:          uuid.NewString(),
				Source:      domain.SourceGitHub,
				SourceID:    fmt.Sprintf("gh-%s-%d", repo, release.ID),
				Title:       title,
				Content:     release.Body,
				URL:         release.HTMLURL,
				PublishedAt: release.PublishedAt,
				Category:    domain.CategoryRelease,
				Topics:      inferTopics(repo, title, release.Body),
				CreatedAt:   time.Now(),
			})
		}

		advisories, err := c.fetchAdvisories(ctx, repo)
		if err != nil {
			logger.WarnContext(ctx, "failed to fetch advisories", "repo", repo, "error", err)
			continue
		}

		for _, advisory := range advisories {
			title := fmt.Sprintf("%s security advisory: %s", repo, advisory.Summary)
			content := advisory.Description
			if advisory.Severity != "" {
				content = fmt.Sprintf("Severity: %s\n\n%s", advisory.Severity, content)
			}

			events = append(events, domain.Event{
				ID:          uuid.NewString(),
				Source:      domain.SourceGitHub,
				SourceID:    "gh-advisory-" + advisory.GHSAID,
				Title:       title,
				Content:     content,
				URL:         advisory.HTMLURL,
				PublishedAt: advisory.PublishedAt,
				Category:    domain.CategorySecurity,
				Topics:      advisoryTopics(repo, title, advisory.Description),
				CreatedAt:   time.Now(),
			})
		}
	}

	return events, nil
}

// advisoryTopics always includes cybersecurity so advisories reach the
// security escalation rule.
func advisoryTopics(parts ...string) []string {
	topics := inferTopics(parts...)
	for _, t := range topics {
		if t == "cybersecurity" {
			return topics
		}
	}
	return append(topics, "cybersecurity")
}

func (c *GitHub) fetchReleases(ctx context.Context, repo string) ([]githubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/releases?per_page=%d", c.BaseURL, repo, githubReleasesPerRepo)
	var releases []githubRelease
	if err := c.getJSON(ctx, url, &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

func (c *GitHub) fetchAdvisories(ctx context.Context, repo string) ([]githubAdvisory, error) {
	url := fmt.Sprintf("%s/repos/%s/security-advisories?per_page=%d&state=published",
		c.BaseURL, repo, githubAdvisoriesPerRepo)
	var advisories []githubAdvisory
	if err := c.getJSON(ctx, url, &advisories); err != nil {
		return nil, err
	}
	return advisories, nil
}

func (c *GitHub) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status [%d]", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
