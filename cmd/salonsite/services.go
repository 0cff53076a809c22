// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"salonsite/internal/archive"
	"salonsite/internal/assets"
	"salonsite/internal/cache"
	"salonsite/internal/config"
	"salonsite/internal/database"
	"salonsite/internal/engine"
	"salonsite/internal/pipeline"
	"salonsite/internal/storage"
	"salonsite/internal/store"
	"salonsite/internal/suggest"
	"salonsite/internal/theme"
	"salonsite/web"
)

// services holds the optional backing services opened from the
// configuration. Nil fields are not configured.
type services struct {
	valkey  *redis.Client
	db      *sql.DB
	storage *storage.Client

	source      assets.Source
	generations *store.GenerationStore
}

// openServices connects to every service the configuration asks for.
// On error the services opened so far are closed.
func openServices(ctx context.Context, cfg *config.Config) (_ *services, err error) {
	s := &services{}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	if cfg.NeedsValkey() {
		s.valkey, err = cache.ConnectValkey(ctx, cfg.Valkey.Addr, cfg.Valkey.Password, cfg.Valkey.DB)
		if err != nil {
			return nil, err
		}
	}

	if cfg.NeedsS3() {
		s.storage, err = storage.New(storage.Options{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
		})
		if err != nil {
			return nil, err
		}
		if s.storage != nil {
			slog.Info("s3 storage connected", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket)
		} else {
			slog.Warn("s3 storage not configured, uploads to the bucket are disabled")
		}
	}

	if cfg.Database.DSN != "" {
		s.db, err = database.Connect(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(s.db, cfg.Database.Driver); err != nil {
			return nil, err
		}
		s.generations = store.NewGenerationStore(s.db)
	}

	s.source, err = s.assetSource(cfg.Assets)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// assetSource builds the configured asset source. Remote sources are
// fronted by the Valkey asset cache when a cache TTL is set.
func (s *services) assetSource(ac config.AssetsConfig) (assets.Source, error) {
	var src assets.Source
	switch ac.Source {
	case "embed":
		return assets.NewFS(web.Site()), nil
	case "dir":
		dir, err := assets.NewDir(ac.Dir)
		if err != nil {
			return nil, err
		}
		return dir, nil
	case "http":
		h, err := assets.NewHTTP(ac.BaseURL, nil)
		if err != nil {
			return nil, err
		}
		src = h
	case "s3":
		if s.storage == nil {
			return nil, errors.New("assets: the s3 source needs s3.endpoint and credentials")
		}
		src = assets.NewS3(s.storage, ac.Prefix)
	default:
		return nil, fmt.Errorf("assets: unknown source %q", ac.Source)
	}

	if ac.CacheTTL > 0 && s.valkey != nil {
		slog.Info("asset cache enabled", "source", ac.Source, "ttl", ac.CacheTTL)
		return assets.NewCached(src, cache.NewAssetCache(s.valkey, ac.CacheTTL), ac.Source), nil
	}
	return src, nil
}

// generator assembles the generation pipeline over the asset source.
func (s *services) generator(registry *theme.Registry, opts ...archive.Option) *pipeline.Generator {
	var popts []pipeline.Option
	if s.generations != nil {
		popts = append(popts, pipeline.WithLog(s.generations))
	}
	return pipeline.New(registry, engine.New(), archive.New(s.source, opts...), popts...)
}

// Close releases every opened connection.
func (s *services) Close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.valkey != nil {
		s.valkey.Close()
	}
}

// newSuggester builds the listing lookup chain: the Maps URL parser, then
// the OpenStreetMap enrichers.
func newSuggester(sc config.SuggestConfig) suggest.Provider {
	var enrichers []suggest.Enricher
	if sc.NominatimURL != "" {
		enrichers = append(enrichers, suggest.NewNominatim(sc.NominatimURL, nil))
	}
	if sc.OverpassURL != "" {
		enrichers = append(enrichers, suggest.NewOverpass(sc.OverpassURL, nil))
	}
	return suggest.NewChain(suggest.URLParser{}, enrichers...)
}
