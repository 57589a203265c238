package port

// Tokenizer splits text into normalized terms. The chunker uses it to
// measure paragraph length.
type Tokenizer interface {
	Tokenize(text string) []string

	// CountTokens estimates the model token count of text.
	CountTokens(text string) int
}
