package model

// LoadError records an input line that could not be parsed.
type LoadError struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Error  string `json:"error"`
}
