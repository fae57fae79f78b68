package shortener

import "time"

// Code is the short identifier of a link, either generated or a caller-chosen alias.
type Code string

// ShortLink maps a short code to its destination URL. Records are immutable once saved.
type ShortLink struct {
	Code      Code
	LongURL   string
	Custom    bool // true when Code was supplied by the caller
	CreatedAt time.Time
}

// StrategyName identifies how a code is generated when no alias is supplied.
type StrategyName string

const (
	// StrategyToken draws a fresh random code for every request.
	StrategyToken StrategyName = "token"
	// StrategyHash derives the code from the normalized URL so repeated URLs share a code.
	StrategyHash StrategyName = "hash"
	// StrategyCustom marks links created from a caller-supplied alias.
	StrategyCustom StrategyName = "custom"
)
