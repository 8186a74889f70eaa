package marketplace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/endpoints"
	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/fetcher"
)

// Prometheus metrics for aggregation runs.
var (
	aggregationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aggregations_total",
		Help: "Total aggregation runs by outcome",
	}, []string{"outcome"})

	aggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aggregation_duration_seconds",
		Help:    "End-to-end aggregation duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	aggregationItemsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aggregation_items_returned",
		Help:    "Number of sellable items returned per aggregation",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	collectionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collection_fetch_failures_total",
		Help: "Collection fetches absorbed into an empty result, by collection",
	}, []string{"collection"})
)

// Config holds the aggregator configuration.
type Config struct {
	// Workers bounds the per-game gamepass fan-out. 1, the default, keeps
	// the game loop strictly sequential, which the upstream rate limits
	// favor. Values above 1 enable a bounded worker pool.
	Workers int

	// AssetTypes are the created-item asset types considered sellable.
	AssetTypes []string
}

// DefaultConfig returns the default aggregator configuration.
func DefaultConfig() Config {
	return Config{
		Workers:    1,
		AssetTypes: []string{TypeShirt, TypePants, TypeTShirt},
	}
}

// Aggregator sequences the collection fetchers for one user and flattens
// their output: all gamepasses of each owned game in game order, then the
// user's created items. Aggregator is safe for concurrent use; runs share
// no mutable state.
type Aggregator struct {
	fetcher       *fetcher.Client
	catalog       *endpoints.Catalog
	config        Config
	sellableTypes map[string]bool
	logger        zerolog.Logger
}

// New creates an aggregator. Zero or empty config values fall back to the
// defaults.
func New(f *fetcher.Client, catalog *endpoints.Catalog, cfg Config) *Aggregator {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if len(cfg.AssetTypes) == 0 {
		cfg.AssetTypes = DefaultConfig().AssetTypes
	}

	sellable := make(map[string]bool, len(cfg.AssetTypes))
	for _, t := range cfg.AssetTypes {
		sellable[t] = true
	}

	return &Aggregator{
		fetcher:       f,
		catalog:       catalog,
		config:        cfg,
		sellableTypes: sellable,
		logger:        log.With().Str("component", "aggregator").Logger(),
	}
}

// Aggregate runs the full pipeline for one user: owned games, each game's
// gamepasses in the order the games were returned, then created items.
// Upstream failures degrade to fewer items, never to failure: the result
// stays Success=true even if every upstream call failed. Only a defect in
// the orchestration itself yields Success=false, converted at the top
// level into an error result.
func (a *Aggregator) Aggregate(ctx context.Context, userID string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().
				Str("user_id", userID).
				Interface("panic", r).
				Msg("Aggregation failed")
			aggregationsTotal.WithLabelValues("failure").Inc()
			result = Result{
				Success: false,
				UserID:  userID,
				Error:   fmt.Sprint(r),
				Items:   []Item{},
				Count:   0,
			}
		}
	}()

	start := time.Now()
	items := make([]Item, 0)

	games := guarded(a.logger, "games", func() ([]GameRef, error) {
		return a.fetchOwnedGames(ctx, userID)
	})

	items = append(items, a.gamePassesForGames(ctx, games)...)

	items = append(items, guarded(a.logger, "created-items", func() ([]Item, error) {
		return a.fetchCreatedItems(ctx, userID)
	})...)

	a.logger.Info().
		Str("user_id", userID).
		Int("games", len(games)).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Aggregation complete")
	aggregationsTotal.WithLabelValues("success").Inc()
	aggregationDuration.Observe(time.Since(start).Seconds())
	aggregationItemsReturned.Observe(float64(len(items)))

	return Result{
		Success: true,
		UserID:  userID,
		Items:   items,
		Count:   len(items),
	}
}

// gamePassesForGames fetches each game's gamepasses and flattens them in
// game order. With Workers == 1 the loop is strictly sequential. Otherwise
// a bounded worker pool fans out; per-game slices are collected by index so
// the flattened ordering is identical to the sequential one.
func (a *Aggregator) gamePassesForGames(ctx context.Context, games []GameRef) []Item {
	if len(games) == 0 {
		return nil
	}

	perGame := make([][]Item, len(games))

	if a.config.Workers == 1 {
		for i, game := range games {
			perGame[i] = a.guardedGamePasses(ctx, game)
		}
	} else {
		indexes := make(chan int, len(games))
		for i := range games {
			indexes <- i
		}
		close(indexes)

		workers := a.config.Workers
		if workers > len(games) {
			workers = len(games)
		}

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range indexes {
					perGame[i] = a.guardedGamePasses(ctx, games[i])
				}
			}()
		}
		wg.Wait()
	}

	var items []Item
	for _, passes := range perGame {
		items = append(items, passes...)
	}
	return items
}

func (a *Aggregator) guardedGamePasses(ctx context.Context, game GameRef) []Item {
	return guarded(a.logger, "gamepasses", func() ([]Item, error) {
		return a.fetchGamePasses(ctx, game)
	})
}
