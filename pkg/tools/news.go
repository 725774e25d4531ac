package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultNewsURL   = "https://newsapi.org/v2/everything"
	defaultNewsTopic = "technology"
	maxHeadlines     = 5
)

// NewsTool lists recent headlines for a topic from NewsAPI.
type NewsTool struct {
	api     *apiClient
	apiKey  string
	baseURL string
}

func NewNewsTool(u Upstream) *NewsTool {
	return &NewsTool{
		api:     newAPIClient("NewsAPI", u),
		apiKey:  u.APIKey,
		baseURL: u.baseURL(DefaultNewsURL),
	}
}

func (t *NewsTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "get_news",
		Description: "Get up to five recent news headlines about a topic.",
		Schema: objectSchema(nil, map[string]interface{}{
			"topic": map[string]interface{}{
				"type":        "string",
				"description": "Keyword or topic to search for.",
				"default":     defaultNewsTopic,
			},
		}),
	}
}

type newsResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (t *NewsTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	topic := optionalString(args, "topic", defaultNewsTopic)
	if t.apiKey == "" {
		return "", &ConfigError{Setting: "NEWS_API_KEY"}
	}

	q := url.Values{}
	q.Set("q", topic)
	q.Set("pageSize", fmt.Sprint(maxHeadlines))
	q.Set("sortBy", "publishedAt")
	q.Set("language", "en")
	header := http.Header{}
	header.Set("X-Api-Key", t.apiKey)

	var resp newsResponse
	status, err := t.api.getJSON(ctx, t.baseURL+"?"+q.Encode(), header, &resp)
	if err != nil {
		return "", err
	}
	if resp.Status != "ok" {
		return "", &UpstreamError{Service: "NewsAPI", Status: status, Detail: resp.Message}
	}

	var sb strings.Builder
	n := 0
	for _, a := range resp.Articles {
		title := strings.TrimSpace(a.Title)
		// NewsAPI keeps placeholders for articles that were taken down.
		if title == "" || title == "[Removed]" {
			continue
		}
		n++
		fmt.Fprintf(&sb, "\n%d. %s", n, title)
		if a.Source.Name != "" {
			fmt.Fprintf(&sb, " (%s)", a.Source.Name)
		}
		if a.URL != "" {
			fmt.Fprintf(&sb, "\n   %s", a.URL)
		}
		if n == maxHeadlines {
			break
		}
	}
	if n == 0 {
		return fmt.Sprintf("📰 No recent news found for '%s'.", topic), nil
	}

	heading := fmt.Sprintf("📰 Top %s about %s:", plural(n, "headline", "headlines"), cases.Title(language.English, cases.NoLower).String(topic))
	return heading + sb.String(), nil
}
