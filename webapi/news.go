package webapi

import (
	"net/url"

	"github.com/pkg/errors"
)

// ErrNoNewsKey means no NewsAPI key is configured. The news handler falls
// back to its built-in headlines in that case.
var ErrNoNewsKey = errors.New("no NewsAPI key configured")

// Headline is one top-headlines article title.
type Headline struct {
	Title string `json:"title"`
}

// News fetches top headlines for the category. Requires a NewsAPI key.
func (c *Client) News(category string) ([]Headline, error) {
	if c.eps.NewsAPIKey == "" {
		return nil, ErrNoNewsKey
	}

	var out struct {
		Articles []Headline `json:"articles"`
	}
	params := url.Values{}
	params.Set("country", "us")
	params.Set("category", category)
	params.Set("apiKey", c.eps.NewsAPIKey)
	if err := c.getJSON(c.eps.News, params, &out); err != nil {
		return nil, err
	}
	return out.Articles, nil
}
