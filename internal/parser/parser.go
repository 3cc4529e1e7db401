// Package parser turns fetched listing pages, feeds and article pages into
// raw candidates and page-level metadata.
package parser

import (
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// Extractor produces raw candidates from a fetched response.
type Extractor interface {
	// Extract returns candidates in discovery order. A malformed document
	// yields a *types.ParseError.
	Extract(resp *types.Response) ([]*types.Candidate, error)
}
