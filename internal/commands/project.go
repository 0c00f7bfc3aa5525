package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/partnerpay/partnerpay/internal/config"
	"github.com/partnerpay/partnerpay/internal/log"
	"github.com/partnerpay/partnerpay/internal/partners"
	"github.com/partnerpay/partnerpay/internal/store"
)

// project is an opened partnerpay directory: config, logger and store.
type project struct {
	root   string
	cfg    *config.Config
	logger *log.Logger
	store  *store.Store
}

func addDirFlag(cmd *cobra.Command, dir *string) {
	cmd.Flags().StringVar(dir, "dir", ".", "project directory")
}

func openProject(ctx context.Context, dir string) (*project, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s is not a partnerpay project (run partnerpay init)", root)
		}
		return nil, err
	}
	if err := cfg.ApplyEnv(root); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lc := cfg.LoggerConfig()
	lc.Component = log.ComponentCommands
	lc.Writer = os.Stderr
	logger := log.New(lc)
	log.SetDefault(logger)

	st, err := store.Open(ctx, cfg.DBPath(root), logger.WithComponent(log.ComponentStore))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &project{root: root, cfg: cfg, logger: logger, store: st}, nil
}

func (p *project) Close() error {
	return p.store.Close()
}

// registry snapshots the partner registry. Matching always reads a fresh
// snapshot so edits made between uploads are honored.
func (p *project) registry(ctx context.Context) (*partners.Service, error) {
	ps, err := p.store.ListPartners(ctx)
	if err != nil {
		return nil, err
	}
	return partners.NewService(ps), nil
}

func (p *project) matcher() (partners.Matcher, error) {
	return partners.NewMatcher(p.cfg.Matching.Strategy, p.cfg.Matching.MinLength, p.cfg.Matching.MinSimilarity)
}

func (p *project) resolvePartner(ctx context.Context, ref string) (*partners.Service, string, error) {
	svc, err := p.registry(ctx)
	if err != nil {
		return nil, "", err
	}
	partner, ok := svc.Resolve(ref)
	if !ok {
		return nil, "", fmt.Errorf("partner %q: %w", ref, store.ErrNotFound)
	}
	return svc, partner.ID, nil
}
