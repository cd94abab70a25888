package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/marmitar/busca-fuzzy/internal/cache"
	"github.com/marmitar/busca-fuzzy/internal/config"
	"github.com/marmitar/busca-fuzzy/internal/httpapi"
	"github.com/marmitar/busca-fuzzy/internal/initorch"
	"github.com/marmitar/busca-fuzzy/internal/model"
	"github.com/marmitar/busca-fuzzy/internal/scrape"
	"github.com/marmitar/busca-fuzzy/internal/search"
	"github.com/marmitar/busca-fuzzy/internal/searchcache"
)

// app bundles the orchestrators one process run needs: the initialization
// orchestrator each corpus's controller is registered against, the search
// orchestrator that fans queries out across whichever corpora have
// finished, and the configuration both were built from.
type app struct {
	init   *initorch.Orchestrator
	search *search.Orchestrator
	cfg    *config.Config
}

// newApp wires the two reference corpora (disciplina, curso) into a fresh
// initialization orchestrator: each task scrapes (or reads its on-disk
// cache), builds its fuzzy index, registers a CorpusSearcher against it, and
// returns the httpapi controller the direct lookup endpoints serve from.
//
// forceFresh selects scrape.Build (bypass the cache, persist synchronously)
// over scrape.Run (cache-or-scrape, persist in the background); the
// `build-cache` subcommand needs the former so it does not exit before its
// writes land on disk.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, forceFresh bool) *app {
	env := scrape.NewEnv(cfg.CacheDirName, cfg.UseCaching, logger)
	registry := cache.NewRegistry()
	orch := initorch.New(logger)
	so := search.NewOrchestrator()

	orch.Register(ctx, "disciplina", func(ctx context.Context) (any, error) {
		var (
			records []model.Discipline
			err     error
		)
		if forceFresh {
			records, err = scrape.Build[[]model.Discipline](ctx, env, scrape.DisciplinaScraper{})
		} else {
			records, err = scrape.Run[[]model.Discipline](ctx, env, scrape.DisciplinaScraper{})
		}
		if err != nil {
			return nil, fmt.Errorf("disciplina: %w", err)
		}

		idx, buildErr := searchcache.Build("disciplina", model.DisciplineSchema(), records)
		if err := cache.Overwrite(registry, "disciplina", idx, buildErr); err != nil {
			return nil, fmt.Errorf("disciplina: %w", err)
		}
		so.Register("disciplina", func(ctx context.Context, query string) ([]searchcache.Result, error) {
			return cache.Search[model.Discipline](registry, "disciplina", query, cfg.MaxResultScore, cfg.SendHiddenFields)
		})

		byCode := make(map[string]model.Discipline, len(records))
		for _, d := range records {
			byCode[d.Code] = d
		}
		return &httpapi.DisciplinaController{ByCode: byCode}, nil
	})

	orch.Register(ctx, "curso", func(ctx context.Context) (any, error) {
		var (
			catalog scrape.CourseCatalog
			err     error
		)
		if forceFresh {
			catalog, err = scrape.Build[scrape.CourseCatalog](ctx, env, scrape.CursoScraper{})
		} else {
			catalog, err = scrape.Run[scrape.CourseCatalog](ctx, env, scrape.CursoScraper{})
		}
		if err != nil {
			return nil, fmt.Errorf("curso: %w", err)
		}

		idx, buildErr := searchcache.Build("curso", model.CourseSchema(), catalog.Previews)
		if err := cache.Overwrite(registry, "curso", idx, buildErr); err != nil {
			return nil, fmt.Errorf("curso: %w", err)
		}
		so.Register("curso", func(ctx context.Context, query string) ([]searchcache.Result, error) {
			return cache.Search[model.CoursePreview](registry, "curso", query, cfg.MaxResultScore, cfg.SendHiddenFields)
		})

		byCode := make(map[string]model.CoursePreview, len(catalog.Previews))
		variantOrder := make(map[string][]string, len(catalog.Previews))
		for _, c := range catalog.Previews {
			byCode[c.Code] = c
			variantOrder[c.Code] = c.Variants.Values()
		}
		return &httpapi.CursoController{
			ByCode:       byCode,
			Trees:        catalog.Trees,
			VariantOrder: variantOrder,
		}, nil
	})

	return &app{init: orch, search: so, cfg: cfg}
}
