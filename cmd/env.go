package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/lexdrill/internal/config"
	"github.com/abhisek/lexdrill/internal/content"
	"github.com/abhisek/lexdrill/internal/eligibility"
	"github.com/abhisek/lexdrill/internal/logging"
	"github.com/abhisek/lexdrill/internal/store"
)

// env is what every command needs: the resolved config and a logger.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

// loadEnv loads configuration and applies persistent flag overrides.
func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if s, _ := cmd.Flags().GetString("scope"); s != "" {
		cfg.Scope = s
	}
	if p, _ := cmd.Flags().GetString("pool"); p != "" {
		cfg.Pool = p
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger}, nil
}

// resolveDBPath returns the database path using --db or db_path (highest
// priority), then LEXDRILL_DB env var, then the default XDG path.
func (e *env) resolveDBPath() (string, error) {
	if p := e.cfg.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func (e *env) openStore() (*store.Store, error) {
	dbPath, err := e.resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath, e.logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func (e *env) normalizer() (*eligibility.Normalizer, error) {
	n, err := eligibility.NewNormalizer(e.cfg.Drill.Options, e.cfg.Drill.Aliases)
	if err != nil {
		return nil, fmt.Errorf("attribute options: %w", err)
	}
	return n, nil
}

// loadEligible loads the configured pool and returns it with its eligible
// items.
func (e *env) loadEligible(n *eligibility.Normalizer) (*content.Pool, []content.Item, error) {
	if e.cfg.Pool == "" {
		return nil, nil, errors.New("no item pool configured: pass --pool or set pool in the config file")
	}
	pool, err := content.LoadPool(e.cfg.Pool)
	if err != nil {
		return nil, nil, err
	}
	filter := eligibility.NewFilter(pool, e.cfg.Drill.PartOfSpeech, n, e.logger)
	filter.DefaultQuiz = content.QuizConfig{
		RequireImage: e.cfg.Drill.RequireImage,
		RequireAudio: e.cfg.Drill.RequireAudio,
	}
	return pool, filter.Apply(pool.Items), nil
}
