package article

import "time"

// Raw is an article record as returned by the search API.
// Pointer fields are nil when the key is absent from the JSON.
type Raw struct {
	Headline *Headline `json:"headline"`
	PubDate  *string   `json:"pub_date"`
	Keywords []Keyword `json:"keywords"`
}

// Headline holds the headline variants of an article.
type Headline struct {
	Main *string `json:"main"`
}

// Keyword is a tag attached to an article. Only Value is used for analysis.
type Keyword struct {
	Value string `json:"value"`
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
}

// Article is one normalized row of the article table.
type Article struct {
	Headline string
	PubDate  time.Time
	Keywords []string
}
