package webapi

// Joke is a JokeAPI joke, either a one-liner (Type "single") or a
// setup/delivery two-parter.
type Joke struct {
	Type     string `json:"type"`
	Joke     string `json:"joke"`
	Setup    string `json:"setup"`
	Delivery string `json:"delivery"`
	Category string `json:"category"`
}

func (c *Client) Joke() (*Joke, error) {
	var j Joke
	if err := c.getJSON(c.eps.Jokes, nil, &j); err != nil {
		return nil, err
	}
	return &j, nil
}
