package webapi

// Quote is a random quotation from quotable.io.
type Quote struct {
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

func (c *Client) Quote() (*Quote, error) {
	var q Quote
	if err := c.getJSON(c.eps.Quotes, nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}
