// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Flags read their EnvVars during parsing, so .env must be loaded first.
	if err := loadEnvFile(".env"); err != nil {
		log.Fatal(err)
	}
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "briefing",
		Usage: "Search technology product updates and build briefings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run one search through the pipeline",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:  "locale",
						Usage: "Response locale (ja, en, ko, zh, es, fr, de, pt)",
						Value: "ja",
					},
					&cli.StringFlag{
						Name:  "period",
						Usage: "Restrict results to 1w, 1m, 3m or 6m",
					},
					&cli.BoolFlag{
						Name:  "live",
						Usage: "Query external sources in addition to the local dataset",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full result as JSON",
					},
				),
			},
			{
				Name:      "import",
				Usage:     "Import YAML seed files into the local dataset",
				ArgsUsage: "<file>...",
				Action:    importCommand,
				Flags: append(storageFlags(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-import files even when unchanged since the last import",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of files imported concurrently",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records written per storage call",
						Value: 100,
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Realign stored records with the current product catalog",
				Action: reindexCommand,
				Flags: append(storageFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records written per storage call",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for a failed batch write",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: time.Second,
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":3000",
						EnvVars: []string{"BRIEFING_ADDR"},
					},
					&cli.StringFlag{
						Name:    "redis-url",
						Usage:   "Redis URL for shared rate-limit state (in-memory when empty)",
						EnvVars: []string{"REDIS_URL"},
					},
					&cli.IntFlag{
						Name:    "rate-limit-max",
						Usage:   "Requests allowed per client per window",
						Value:   30,
						EnvVars: []string{"RATE_LIMIT_MAX"},
					},
					&cli.DurationFlag{
						Name:    "rate-limit-window",
						Usage:   "Rate-limit sliding window",
						Value:   defaultRateLimitWindow,
						EnvVars: []string{"RATE_LIMIT_WINDOW"},
					},
				),
			},
			{
				Name:   "products",
				Usage:  "List the product catalog",
				Action: productsCommand,
				Flags: []cli.Flag{
					catalogFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the catalog as JSON",
					},
				},
			},
		},
	}
}

// loadEnvFile loads variables from path without overriding the environment.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
