package app

import (
	"fmt"
	"time"

	"github.com/SHuzaifah/Clarity/internal/catalog"
	"github.com/SHuzaifah/Clarity/internal/channels"
	"github.com/SHuzaifah/Clarity/internal/config"
	"github.com/SHuzaifah/Clarity/internal/db"
	"github.com/SHuzaifah/Clarity/internal/handlers"
	"github.com/SHuzaifah/Clarity/internal/middleware"
	"github.com/SHuzaifah/Clarity/internal/recommend"
	"github.com/SHuzaifah/Clarity/internal/repositories"
	"github.com/SHuzaifah/Clarity/internal/youtube"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	whitelist := channels.Default()
	if cfg.ChannelsFile != "" {
		loaded, err := channels.Load(cfg.ChannelsFile)
		if err != nil {
			return handlers.Dependencies{}, fmt.Errorf("load channel whitelist: %w", err)
		}
		whitelist = loaded
	}

	client := youtube.NewClient(cfg.YouTubeAPIKey, cfg.YouTubeTimeout, cfg.YouTubeRatePerSec)
	source := youtube.NewCachingSource(client, cfg.HandleCacheTTL, cfg.SnippetCacheTTL)

	videoRepo := repositories.NewPostgresVideoRepository(pool)
	engine := catalog.NewEngine(source, videoRepo)

	aggregator := recommend.NewAggregator(
		repositories.NewPostgresHistoryRepository(pool),
		repositories.NewPostgresCollectionRepository(pool),
		videoRepo,
	)
	ranker := recommend.NewRanker(whitelist, aggregator, engine)

	limiter := middleware.NewIPRateLimiter(cfg.RecommendRateLimit, time.Minute, cfg.RecommendRateLimit, 10*time.Minute)

	return handlers.Dependencies{
		Recommendations:  ranker,
		Catalog:          engine,
		Whitelist:        whitelist,
		RecommendLimiter: limiter,
		HasAPIKey:        cfg.YouTubeAPIKey != "",
	}, nil
}
