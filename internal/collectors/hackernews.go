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
	hackerNewsBaseURL  = "https://hacker-news.firebaseio.com/v0"
	hackerNewsTopLimit = 30
	hackerNewsMinScore = 50
)

type HackerNews struct {
	Client *http.Client
}

func NewHackerNews() *HackerNews {
	return &HackerNews{Client: &http.Client{Timeout: 15 * time.Second}}
}

func (c *HackerNews) Name() string { return "hackernews" }

type hackerNewsItem struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
	Score int    `json:"score"`
	Time  int64  `json:"time"`
}

// Collect fetches the current top stories and keeps high-scoring ones.
func (c *HackerNews) Collect(ctx context.Context) ([]domain.Event, error) {
	var ids []int64
	if err := c.getJSON(ctx, hackerNewsBaseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("fetching top stories: %w", err)
	}
	if len(ids) > hackerNewsTopLimit {
		ids = ids[:hackerNewsTopLimit]
	}

	logger := domain.LoggerFromContext(ctx)

	var events []domain.Event
	for _, id := range ids {
		var item hackerNewsItem
		url := fmt.Sprintf("%s/item/%d.json", hackerNewsBaseURL, id)
		if err := c.getJSON(ctx, url, &item); err != nil {
			logger.WarnContext(ctx, "failed to fetch story", "story_id", id, "error", err)
			continue
		}

		if item.Type != "story" || item.Score < hackerNewsMinScore || item.Title == "" {
			continue
		}

		content := item.Text
		if content == "" {
			content = item.Title
		}

		events = append(events, domain.Event{
			ID:          uuid.NewString(),
			Source:      domain.SourceHackerNews,
			SourceID:    fmt.Sprintf("hn-%d", item.ID),
			Title:       item.Title,
			Content:     content,
			URL:         item.URL,
			PublishedAt: time.Unix(item.Time, 0),
			Category:    domain.CategoryTrend,
			Topics:      inferTopics(item.Title, item.Text),
			CreatedAt:   time.Now(),
		})
	}

	return events, nil
}

func (c *HackerNews) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status [%d]", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
