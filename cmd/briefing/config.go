package main

import (
	"time"

	"github.com/poiesic/briefing"
	"github.com/poiesic/briefing/ai"
	"github.com/poiesic/briefing/ratelimit"
	"github.com/poiesic/briefing/sources/learn"
	"github.com/poiesic/briefing/sources/tenant"
	"github.com/urfave/cli/v2"
)

const (
	defaultDBPath          = "./data/briefing"
	defaultRateLimitWindow = time.Minute

	minLearnTimeoutMs = 1000
	maxLearnTimeoutMs = 60000
	maxAPIRetries     = 5
)

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to BadgerDB database directory",
		Value:   defaultDBPath,
		EnvVars: []string{"BRIEFING_DB"},
	}
}

func catalogFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "catalog",
		Usage:   "YAML product catalog replacing the built-in one",
		EnvVars: []string{"BRIEFING_CATALOG"},
	}
}

func storageFlags() []cli.Flag {
	return []cli.Flag{dbFlag(), catalogFlag()}
}

// serviceFlags are shared by every command that runs the pipeline.
func serviceFlags() []cli.Flag {
	return append(storageFlags(),
		&cli.StringFlag{
			Name:    "openai-api-key",
			Usage:   "API key for the reasoning model; rule-based operation when empty",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "openai-model",
			Usage:   "Chat model name",
			Value:   "gpt-4o",
			EnvVars: []string{"OPENAI_MODEL"},
		},
		&cli.StringFlag{
			Name:    "openai-base-url",
			Usage:   "OpenAI-compatible API host (public API when empty)",
			EnvVars: []string{"OPENAI_BASE_URL"},
		},
		&cli.BoolFlag{
			Name:    "enable-llm-reasoning",
			Usage:   "Use the reasoning model when a key is present",
			Value:   true,
			EnvVars: []string{"ENABLE_LLM_REASONING"},
		},
		&cli.Float64Flag{
			Name:    "evaluator-threshold",
			Usage:   "Quality score (0-1) a result set must reach before a retry is attempted",
			Value:   0.5,
			EnvVars: []string{"EVALUATOR_THRESHOLD"},
		},
		&cli.BoolFlag{
			Name:    "learn",
			Usage:   "Enable the documentation search source",
			Value:   true,
			EnvVars: []string{"ENABLE_LEARN_SEARCH"},
		},
		&cli.IntFlag{
			Name:    "learn-api-timeout",
			Usage:   "Documentation search timeout in milliseconds (1000-60000)",
			Value:   10000,
			EnvVars: []string{"LEARN_API_TIMEOUT"},
		},
		&cli.IntFlag{
			Name:    "max-api-retries",
			Usage:   "Retries for failed documentation searches (0-5)",
			Value:   2,
			EnvVars: []string{"MAX_API_RETRIES"},
		},
		&cli.StringFlag{
			Name:    "tenant-url",
			Usage:   "Tenant data gateway URL (disabled when empty)",
			EnvVars: []string{"WORKIQ_URL"},
		},
		&cli.StringFlag{
			Name:    "tenant-token",
			Usage:   "Bearer token for the tenant data gateway",
			EnvVars: []string{"WORKIQ_TOKEN"},
		},
	)
}

// serviceOptions maps command flags onto service options. Out-of-range
// numbers are clamped rather than rejected.
func serviceOptions(c *cli.Context) []briefing.Option {
	opts := []briefing.Option{
		briefing.WithAIConfig(ai.NewConfig(
			ai.WithToken(c.String("openai-api-key")),
			ai.WithModel(c.String("openai-model")),
			ai.WithHost(c.String("openai-base-url")),
			ai.WithEnabled(c.Bool("enable-llm-reasoning")),
		)),
		briefing.WithEvaluatorThreshold(clampFloat(c.Float64("evaluator-threshold"), 0, 1)),
		briefing.WithLearn(c.Bool("learn"),
			learn.WithTimeout(time.Duration(clampInt(c.Int("learn-api-timeout"), minLearnTimeoutMs, maxLearnTimeoutMs))*time.Millisecond),
			learn.WithMaxRetries(clampInt(c.Int("max-api-retries"), 0, maxAPIRetries)),
		),
	}
	if path := c.String("catalog"); path != "" {
		opts = append(opts, briefing.WithCatalogFile(path))
	}
	if url := c.String("tenant-url"); url != "" {
		opts = append(opts, briefing.WithTenant(url, tenant.WithToken(c.String("tenant-token"))))
	}
	return opts
}

func rateLimitOptions(c *cli.Context) []briefing.Option {
	opts := []briefing.Option{briefing.WithRateLimit(
		ratelimit.WithMaxRequests(max(c.Int("rate-limit-max"), 1)),
		ratelimit.WithWindow(max(c.Duration("rate-limit-window"), time.Second)),
	)}
	if url := c.String("redis-url"); url != "" {
		opts = append(opts, briefing.WithRedis(url))
	}
	return opts
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clampFloat(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
