package collector

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ekslens/leadgen-cli/internal/config"
	"github.com/ekslens/leadgen-cli/internal/industry"
	"github.com/ekslens/leadgen-cli/internal/model"
	"github.com/ekslens/leadgen-cli/pkg/serp"
)

// SerpCollector discovers leads through organic web search results.
type SerpCollector struct {
	client    serp.Client
	policy    industry.Policy
	limiter   *rate.Limiter
	perSearch int
}

// NewSerp creates a SerpCollector. A nil client marks the collector as
// unavailable (no API key configured).
func NewSerp(client serp.Client, policy industry.Policy, cfg config.SerpConfig) *SerpCollector {
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 0.5
	}
	perSearch := cfg.ResultsPerSearch
	if perSearch <= 0 {
		perSearch = 5
	}
	return &SerpCollector{
		client:    client,
		policy:    policy,
		limiter:   rate.NewLimiter(rate.Limit(rateLimit), 1),
		perSearch: perSearch,
	}
}

func (c *SerpCollector) Name() string { return "serpapi" }

func (c *SerpCollector) Available() bool { return c.client != nil }

// Search runs keyword x city organic searches until the budget is
// exhausted. Failures of individual searches are logged and contribute
// zero results.
func (c *SerpCollector) Search(ctx context.Context, req Request) Result {
	if !c.Available() {
		return Result{}
	}

	log := zap.L().With(zap.String("collector", c.Name()), zap.String("industry", c.policy.Name()))

	var out Result
	for _, city := range req.Cities {
		if out.Searches >= req.Budget || stopped(req) {
			break
		}
		for _, keyword := range req.Keywords {
			if out.Searches >= req.Budget || stopped(req) {
				break
			}

			if err := c.limiter.Wait(ctx); err != nil {
				return out
			}

			params := c.policy.SearchParams(keyword, city)
			resp, err := c.client.Search(ctx, serp.Query{
				Text:     params["q"],
				Location: params["location"],
				Num:      c.perSearch,
			})
			out.Searches++
			if err != nil {
				log.Warn("search failed",
					zap.String("keyword", keyword),
					zap.String("city", city),
					zap.Error(err),
				)
				continue
			}

			results := resp.OrganicResults
			if len(results) > c.perSearch {
				results = results[:c.perSearch]
			}
			for _, r := range results {
				out.Leads = append(out.Leads, model.Lead{
					DisplayName:      r.Title,
					CanonicalURL:     r.Link,
					Description:      r.Snippet,
					Source:           c.Name(),
					SearchTerm:       keyword + " " + city,
					Industry:         c.policy.Name(),
					ExtractionMethod: "organic_result",
					Status:           model.LeadStatusPending,
					FoundAt:          time.Now().UTC(),
				})
			}
			log.Debug("search complete",
				zap.String("keyword", keyword),
				zap.String("city", city),
				zap.Int("results", len(results)),
			)
		}
	}
	return out
}
