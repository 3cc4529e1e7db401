package pipeline

import (
	"log/slog"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/parser"
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// Middleware processes a candidate and returns the (possibly modified)
// candidate. Return nil to drop it.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a candidate. Return nil to drop the candidate.
	Process(c *types.Candidate) (*types.Candidate, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the candidate through all middleware in order.
func (p *Pipeline) Process(c *types.Candidate) (*types.Candidate, error) {
	current := c

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage:    mw.Name(),
				Headline: current.Headline,
				Err:      err,
			}
		}
		if result == nil {
			p.logger.Debug("candidate dropped", "stage", mw.Name(), "headline", c.Headline)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// ProcessAll runs every candidate through the chain and returns the
// survivors in their original order. Candidates that error are dropped.
func (p *Pipeline) ProcessAll(cands []*types.Candidate) []*types.Candidate {
	out := make([]*types.Candidate, 0, len(cands))
	for _, c := range cands {
		res, err := p.Process(c)
		if err != nil {
			p.logger.Warn("candidate rejected", "error", err)
			continue
		}
		if res != nil {
			out = append(out, res)
		}
	}
	return out
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// NewCandidatePipeline builds the standard chain for one extraction pass.
// Feed passes skip the boilerplate filter; HTML passes keep it.
func NewCandidatePipeline(cfg *config.ExtractionConfig, filter *parser.ImageFilter, boilerplate bool, logger *slog.Logger) *Pipeline {
	p := New(logger)
	p.Use(&NormalizeMiddleware{})
	p.Use(&HeadlineWindowMiddleware{Min: cfg.MinHeadline, Max: cfg.MaxHeadline})
	if boilerplate {
		p.Use(NewBoilerplateMiddleware(cfg.Boilerplate))
	}
	p.Use(&DescriptionMiddleware{Min: cfg.MinDescription, Max: cfg.MaxDescription})
	p.Use(&ImageFilterMiddleware{Filter: filter})
	return p
}
