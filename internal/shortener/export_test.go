package shortener

// NewHashStrategyWithDeriver replaces the code derivation of a HashStrategy.
func NewHashStrategyWithDeriver(
	store Repository, codeLength, maxAttempts int, derive func(seed string, length int) string,
) *HashStrategy {
	s := NewHashStrategy(store, codeLength, maxAttempts)
	s.deriveCode = derive

	return s
}
