package collectors

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

const rssItemsPerFeed = 5

type RSS struct {
	FeedURLs []string
	parser   *gofeed.Parser
}

func NewRSS(feedURLs []string) *RSS {
	return &RSS{FeedURLs: feedURLs, parser: gofeed.NewParser()}
}

func (c *RSS) Name() string { return "rss" }

// Collect fetches each configured feed and emits its newest items as raw
// events. A single unreachable feed is skipped, not fatal.
func (c *RSS) Collect(ctx context.Context) ([]domain.Event, error) {
	logger := domain.LoggerFromContext(ctx)

	var events []domain.Event
	for _, feedURL := range c.FeedURLs {
		feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			logger.WarnContext(ctx, "failed to fetch feed", "url", feedURL, "error", err)
			continue
		}

		items := feed.Items
		if len(items) > rssItemsPerFeed {
			items = items[:rssItemsPerFeed]
		}

		for _, item := range items {
			publishedAt := time.Now()
			if item.PublishedParsed != nil {
				publishedAt = *item.PublishedParsed
			}

			content := item.Description
			if content == "" {
				content = item.Content
			}

			events = append(events, domain.Event{
				ID:          uuid.NewString(),
				Source:      domain.SourceRSS,
				SourceID:    rssSourceID(item.Link),
				Title:       item.Title,
				Content:     content,
				URL:         item.Link,
				PublishedAt: publishedAt,
				Category:    domain.CategoryAnnouncement,
				Topics:      inferTopics(feedURL, item.Title, item.Description),
				CreatedAt:   time.Now(),
			})
		}
	}

	return events, nil
}

func rssSourceID(link string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(link))
	if len(encoded) > 20 {
		encoded = encoded[:20]
	}
	return fmt.Sprintf("rss-%s", encoded)
}
