// Package backend provides the page, attachment and member lookups macros
// render against, served either by the wiki REST API or directly by Postgres.
package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/open-cli-collective/wikimacro/api"
	"github.com/open-cli-collective/wikimacro/internal/config"
	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

// Backend is a macro.Store that can be health checked and closed.
type Backend interface {
	macro.Store
	Ping(ctx context.Context) error
	Close()
}

// New returns the backend selected by cfg.
func New(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.BackendName() {
	case config.BackendAPI:
		return NewAPIStore(api.NewClient(cfg.URL, cfg.Email, cfg.APIToken)), nil
	case config.BackendPostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// NewEnv builds the macro environment for cfg on top of store.
func NewEnv(cfg *config.Config, store macro.Store) *macro.Env {
	env := macro.NewEnv(store, macro.StorageConfig{
		RootPath: cfg.Storage.RootPath,
		AppPath:  cfg.Storage.AppPath,
		FilePath: cfg.Storage.FilePath,
	}, macro.BaseRouter{Base: cfg.PublicURL()})
	env.SiteURL = cfg.PublicURL()
	return env
}

// pageLink builds the canonical route of a page: /wiki/<scope>/<pagename>.
func pageLink(scope, pagename string) string {
	link := "/wiki/"
	if scope = strings.Trim(scope, "/"); scope != "" {
		link += scope + "/"
	}
	return link + pagename
}
