package collectors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

func TestGitHubCollect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/widget/releases":
			fmt.Fprint(w, `[
				{"id": 101, "name": "v2.0", "tag_name": "v2.0.0", "body": "Big release",
				 "html_url": "https://github.com/acme/widget/releases/v2.0.0", "draft": false},
				{"id": 102, "name": "v2.1-draft", "tag_name": "v2.1.0", "draft": true}
			]`)
		case "/repos/acme/widget/security-advisories":
			fmt.Fprint(w, `[
				{"ghsa_id": "GHSA-aaaa-bbbb-cccc", "summary": "RCE in template parser",
				 "description": "A crafted template executes arbitrary code.",
				 "severity": "critical",
				 "html_url": "https://github.com/acme/widget/security/advisories/GHSA-aaaa-bbbb-cccc"}
			]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	collector := NewGitHub([]string{"acme/widget"}, "")
	collector.BaseURL = srv.URL

	events, err := collector.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2, "one published release plus one advisory; drafts skipped")

	release := events[0]
	assert.Equal(t, "gh-acme/widget-101", release.SourceID)
	assert.Equal(t, "acme/widget v2.0 released", release.Title)
	assert.Equal(t, domain.CategoryRelease, release.Category)

	advisory := events[1]
	assert.Equal(t, "gh-advisory-GHSA-aaaa-bbbb-cccc", advisory.SourceID)
	assert.Equal(t, "acme/widget security advisory: RCE in template parser", advisory.Title)
	assert.Equal(t, domain.CategorySecurity, advisory.Category)
	assert.Contains(t, advisory.Content, "Severity: critical")
	assert.Contains(t, advisory.Topics, "cybersecurity")
}

func TestGitHubCollect_AdvisoryFetchFailureSkipsRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/widget/releases":
			fmt.Fprint(w, `[]`)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	collector := NewGitHub([]string{"acme/widget"}, "")
	collector.BaseURL = srv.URL

	events, err := collector.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}
