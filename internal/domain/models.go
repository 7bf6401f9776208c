package domain

// Article is a piece of text submitted for analysis. Text may be empty until
// the page at URL has been extracted.
type Article struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	Text  string `json:"text"`
}
