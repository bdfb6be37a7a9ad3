package prompt_fx

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"muanapay/internal/config"
	"muanapay/internal/services"
	"muanapay/pkg/memcache"
	"muanapay/pkg/metrics"
	"muanapay/pkg/utils"
)

var Module = fx.Provide(
	ProvideCompletionClient,
	ProvideEnrichmentService,
)

// ProvideCompletionClient creates the chat-completion client for the configured
// provider, wrapped in the response cache. It returns nil when enrichment is off
// or no API key is configured; ingestion then relies on the regex parser alone.
func ProvideCompletionClient(
	lc fx.Lifecycle,
	cfg config.Config,
	store memcache.Store,
	log *zap.Logger,
) (utils.CompletionClientInterface, error) {
	ec := cfg.Enrichment
	if strings.EqualFold(ec.Mode, string(services.EnrichmentOff)) {
		return nil, nil
	}
	if ec.APIKey == "" {
		log.Warn("no enrichment API key configured, using regex parsing only",
			zap.String("provider", ec.Provider))
		return nil, nil
	}

	var client utils.CompletionClientInterface
	switch strings.ToLower(ec.Provider) {
	case "openai":
		client = utils.NewOpenAICompletionClient(ec.APIKey, ec.BaseURL, ec.Model, ec.Timeout)
	case "gemini":
		gemini, err := utils.NewGeminiCompletionClient(context.Background(), ec.APIKey, ec.Model, ec.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return gemini.Close()
			},
		})
		client = gemini
	default:
		return nil, fmt.Errorf("unsupported enrichment provider: %s. Use 'openai' or 'gemini'", ec.Provider)
	}

	log.Info("enrichment client initialised",
		zap.String("provider", ec.Provider),
		zap.String("model", client.Model()),
		zap.String("mode", ec.Mode))

	return utils.NewCachedCompletionClient(client, store, cfg.CacheTTL, log), nil
}

func ProvideEnrichmentService(
	cfg config.Config,
	client utils.CompletionClientInterface,
	log *zap.Logger,
	recorder metrics.Recorder,
) (services.EnrichmentServiceInterface, error) {
	return services.NewEnrichmentService(services.EnrichmentMode(strings.ToLower(cfg.Enrichment.Mode)), client, log, recorder)
}
