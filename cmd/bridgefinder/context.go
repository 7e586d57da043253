package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lineakit/bridgefinder/auth"
	"github.com/lineakit/bridgefinder/config"
	"github.com/lineakit/bridgefinder/wikitree"
)

// commandContext carries the persistent flags and builds the shared pieces
// (logger, config, API client) each subcommand needs.
type commandContext struct {
	configPath *string
	envPath    *string
	verbose    *bool
	noBrowser  *bool
	noCache    *bool
	cacheTTL   *time.Duration
}

func (c *commandContext) logger() *slog.Logger {
	level := slog.LevelInfo
	if *c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (c *commandContext) loadConfig() (config.Config, config.Credentials, error) {
	cfg, err := config.Load(*c.configPath)
	if err != nil {
		return config.Config{}, config.Credentials{}, err
	}
	var creds config.Credentials
	if *c.envPath != "" {
		creds = config.LoadEnv(*c.envPath)
	} else {
		creds = config.LoadEnv()
	}
	return cfg, creds, nil
}

func cookieFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bridgefinder", "cookies.json")
}

// newClient assembles an authenticated API client. Saved or browser session
// cookies are preferred; credentials trigger a fresh login whose cookies are
// persisted for the next run.
func (c *commandContext) newClient(ctx context.Context, logger *slog.Logger, creds config.Credentials) (*wikitree.Client, error) {
	opts := []wikitree.Option{wikitree.WithLogger(logger)}
	if creds.AppID != "" {
		opts = append(opts, wikitree.WithAppID(creds.AppID))
	}

	if !*c.noCache {
		cache, err := wikitree.NewCache(*c.cacheTTL)
		if err != nil {
			logger.Warn("cache unavailable, continuing without", "error", err)
		} else {
			opts = append(opts, wikitree.WithCache(cache))
		}
	}

	sources := []auth.Source{}
	if path := cookieFilePath(); path != "" {
		sources = append(sources, auth.NewFileSource(path))
	}
	sources = append(sources, auth.EnvSource{})
	if !*c.noBrowser {
		sources = append(sources, auth.NewBrowserSource(logger))
	}
	cookies, err := auth.ChainSources(ctx, sources...)
	if err != nil {
		logger.Debug("cookie sources failed", "error", err)
	}
	if len(cookies) > 0 {
		jar, jarErr := auth.NewCookieJar(auth.Domain, cookies)
		if jarErr != nil {
			return nil, jarErr
		}
		opts = append(opts, wikitree.WithHTTPClient(&http.Client{Timeout: 30 * time.Second, Jar: jar}))
		logger.Debug("using existing session cookies")
	}

	client := wikitree.New(opts...)

	if len(cookies) == 0 {
		if creds.Email == "" || creds.Password == "" {
			return nil, errors.New("no session cookies found and WIKITREE_EMAIL/WIKITREE_PASSWORD not set")
		}
		if _, err := client.Login(ctx, creds.Email, creds.Password); err != nil {
			return nil, err
		}
		if path := cookieFilePath(); path != "" {
			if err := auth.SaveCookies(path, client.SessionCookies()); err != nil {
				logger.Warn("could not persist session cookies", "error", err)
			}
		}
	}

	return client, nil
}
