package webapi

import (
	"net/url"

	"github.com/pkg/errors"
)

type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
}

// DictionaryEntry is one dictionaryapi.dev entry for a word.
type DictionaryEntry struct {
	Word     string    `json:"word"`
	Phonetic string    `json:"phonetic"`
	Meanings []Meaning `json:"meanings"`
}

// Define looks the word up and returns the first entry.
func (c *Client) Define(word string) (*DictionaryEntry, error) {
	var entries []DictionaryEntry
	if err := c.getJSON(c.eps.Dictionary+"/"+url.PathEscape(word), nil, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.Errorf("no definition for %q", word)
	}
	return &entries[0], nil
}
