package collector

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ekslens/leadgen-cli/internal/config"
	"github.com/ekslens/leadgen-cli/internal/industry"
	"github.com/ekslens/leadgen-cli/internal/model"
	"github.com/ekslens/leadgen-cli/pkg/places"
)

// PlacesCollector discovers leads through Places text search.
type PlacesCollector struct {
	client    places.Client
	policy    industry.Policy
	limiter   *rate.Limiter
	perSearch int
}

// NewPlaces creates a PlacesCollector. A nil client marks the collector
// as unavailable.
func NewPlaces(client places.Client, policy industry.Policy, cfg config.PlacesConfig) *PlacesCollector {
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 1
	}
	perSearch := cfg.ResultsPerSearch
	if perSearch <= 0 {
		perSearch = 5
	}
	return &PlacesCollector{
		client:    client,
		policy:    policy,
		limiter:   rate.NewLimiter(rate.Limit(rateLimit), 1),
		perSearch: perSearch,
	}
}

func (c *PlacesCollector) Name() string { return "places" }

func (c *PlacesCollector) Available() bool { return c.client != nil }

func (c *PlacesCollector) Search(ctx context.Context, req Request) Result {
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

			query := keyword + " " + city
			resp, err := c.client.TextSearch(ctx, query, c.perSearch)
			out.Searches++
			if err != nil {
				log.Warn("text search failed",
					zap.String("query", query),
					zap.Error(err),
				)
				continue
			}

			results := resp.Places
			if len(results) > c.perSearch {
				results = results[:c.perSearch]
			}
			for _, p := range results {
				out.Leads = append(out.Leads, model.Lead{
					DisplayName:      p.DisplayName.Text,
					CanonicalURL:     p.WebsiteURI,
					Description:      p.FormattedAddress,
					Phone:            p.Phone,
					Source:           c.Name(),
					SearchTerm:       query,
					Industry:         c.policy.Name(),
					ExtractionMethod: "text_search",
					Status:           model.LeadStatusPending,
					FoundAt:          time.Now().UTC(),
				})
			}
			log.Debug("text search complete",
				zap.String("query", query),
				zap.Int("results", len(results)),
			)
		}
	}
	return out
}
