package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/config"
	"github.com/matsen/semrank/internal/embedding"
	"github.com/matsen/semrank/internal/relevance"
)

// newRegistry builds a model registry from the effective settings.
func newRegistry(settings config.Settings) *embedding.Registry {
	var opts []embedding.OllamaOption
	if settings.OllamaURL != "" {
		opts = append(opts, embedding.WithBaseURL(settings.OllamaURL))
	}
	if settings.EmbedRateLimit > 0 {
		opts = append(opts, embedding.WithRateLimit(settings.EmbedRateLimit))
	}
	return embedding.NewRegistry(opts...)
}

// loadScorer opens the configured model and loads the research context,
// reusing the cached context embedding when text and model match.
func loadScorer(ctx context.Context, repoRoot string, settings config.Settings) (*relevance.Scorer, error) {
	enc, err := embedding.Open(ctx, newRegistry(settings), settings.Model)
	if err != nil {
		return nil, err
	}
	logger.Debug("encoder loaded",
		zap.String("model", enc.ModelName()),
		zap.Int("dimensions", enc.Dimensions()))

	scorer := relevance.NewScorer(enc)
	if settings.ContextFile == "" {
		return nil, fmt.Errorf("%w: no context_file configured (run 'semrank context switch <file>')", relevance.ErrContextNotLoaded)
	}

	rc, err := loadContextCached(ctx, repoRoot, settings.ContextFile, enc)
	if err != nil {
		return nil, err
	}
	if err := scorer.SetContext(rc); err != nil {
		return nil, err
	}
	return scorer, nil
}

// switchModel opens model id and, when a context file is configured, embeds
// the context with it. The configured model is never loaded, so a repository
// whose current model is unreachable can still switch away from it.
func switchModel(ctx context.Context, repoRoot string, settings config.Settings, id string) (*embedding.Encoder, *relevance.Context, error) {
	enc, err := embedding.Open(ctx, newRegistry(settings), id)
	if err != nil {
		return nil, nil, err
	}
	if settings.ContextFile == "" {
		return enc, nil, nil
	}

	rc, err := loadContextCached(ctx, repoRoot, settings.ContextFile, enc)
	if err != nil {
		return nil, nil, err
	}
	return enc, rc, nil
}

// loadContextCached reads the context file and returns its embedding,
// from the cache when possible. Cache failures only cost a re-embed.
func loadContextCached(ctx context.Context, repoRoot, path string, enc *embedding.Encoder) (*relevance.Context, error) {
	text, err := relevance.ReadContextFile(path)
	if err != nil {
		return nil, err
	}

	cache := relevance.NewContextCache(config.CachePath(repoRoot))
	rc, err := cache.Load(text, enc.ModelName())
	if err == nil && rc.Matches(enc) {
		rc.Source = path
		logger.Debug("context embedding loaded from cache", zap.String("model", rc.Model))
		return rc, nil
	}
	if err != nil && !errors.Is(err, relevance.ErrCacheMiss) {
		logger.Warn("ignoring unreadable context cache", zap.Error(err))
	}

	rc, err = relevance.NewContext(ctx, text, path, enc)
	if err != nil {
		return nil, err
	}
	saveContextCache(repoRoot, rc)
	return rc, nil
}

// saveContextCache stores the context embedding; failure is logged only.
func saveContextCache(repoRoot string, rc *relevance.Context) {
	cache := relevance.NewContextCache(config.CachePath(repoRoot))
	if err := cache.Save(rc); err != nil {
		logger.Warn("saving context cache", zap.Error(err))
		return
	}
	logger.Debug("context embedding cached", zap.String("model", rc.Model), zap.String("path", cache.Path()))
}

// mustLoadScorer loads config, settings, model, and context; exits on error.
func mustLoadScorer(ctx context.Context, repoRoot string) *relevance.Scorer {
	cfg := mustLoadConfig(repoRoot)
	settings := mustLoadSettings(repoRoot, cfg)
	scorer, err := loadScorer(ctx, repoRoot, settings)
	if err != nil {
		exitOnError(err, "loading scorer")
	}
	return scorer
}
