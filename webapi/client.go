// Package webapi wraps the public read-only HTTP APIs the bot pulls content
// from. Every call is bounded by the shared client timeout; failures are
// reported to the caller, which decides on the user-facing fallback.
package webapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const requestTimeout = 10 * time.Second

// Endpoints lists the third-party services. All defaults are free public
// APIs; only NewsAPI needs a key.
type Endpoints struct {
	Weather    string
	Geocoding  string
	Quotes     string
	Jokes      string
	Dictionary string
	Books      string
	News       string
	NewsAPIKey string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Weather:    "https://api.open-meteo.com/v1/forecast",
		Geocoding:  "https://geocoding-api.open-meteo.com/v1/search",
		Quotes:     "https://api.quotable.io/random",
		Jokes:      "https://v2.jokeapi.dev/joke/Any",
		Dictionary: "https://api.dictionaryapi.dev/api/v2/entries/en",
		Books:      "https://gutendex.com/books",
		News:       "https://newsapi.org/v2/top-headlines",
	}
}

type Client struct {
	http *http.Client
	eps  Endpoints
}

func NewClient(eps Endpoints) *Client {
	return &Client{
		http: &http.Client{Timeout: requestTimeout},
		eps:  eps,
	}
}

func (c *Client) getJSON(rawURL string, params url.Values, out any) error {
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	resp, err := c.http.Get(rawURL)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %s", resp.Status)
	}

	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "malformed response")
}
