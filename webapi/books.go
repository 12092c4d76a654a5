package webapi

import "net/url"

type BookAuthor struct {
	Name string `json:"name"`
}

// Book is one Gutendex search result.
type Book struct {
	Title    string            `json:"title"`
	Authors  []BookAuthor      `json:"authors"`
	Subjects []string          `json:"subjects"`
	Formats  map[string]string `json:"formats"`
}

// SearchBooks queries Project Gutenberg's catalog for public domain books.
func (c *Client) SearchBooks(query string) ([]Book, error) {
	var out struct {
		Results []Book `json:"results"`
	}
	params := url.Values{}
	params.Set("search", query)
	if err := c.getJSON(c.eps.Books, params, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}
