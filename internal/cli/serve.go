package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notationkit/stave/internal/server"
	"github.com/notationkit/stave/pkg/scorestore"
)

// serveCommand creates the serve command for running the score API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		store    string
		mongoURI string
		mongoDB  string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the score API server",
		Long: `Run the score API server.

The server exposes score CRUD, staged score building, and layout
computation under /api/v1. Scores live in the configured store backend:
"memory" keeps them in process (lost on restart), "mongo" persists them
to MongoDB. Layouts are cached through the configured cache backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, store, mongoURI, mongoDB, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Server.Addr, "listen address")
	cmd.Flags().StringVar(&store, "store", c.Config.Store.Backend, "score store backend: memory, mongo")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", c.Config.Store.MongoURI, "MongoDB connection string")
	cmd.Flags().StringVar(&mongoDB, "mongo-database", c.Config.Store.MongoDatabase, "MongoDB database name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")

	return cmd
}

// runServe builds the store and runner, then serves until the context
// is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, store, mongoURI, mongoDB string, noCache bool) error {
	logger := loggerFromContext(ctx)

	prog := newProgress(logger)
	repo, err := c.newStore(ctx, store, mongoURI, mongoDB)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() { _ = repo.Close(context.Background()) }()
	prog.done(fmt.Sprintf("Initialized %s store", store))

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(repo, runner, logger)
	return srv.ListenAndServe(ctx, addr)
}

// newStore builds the score store for the selected backend.
func (c *CLI) newStore(ctx context.Context, backend, mongoURI, mongoDB string) (scorestore.Repository, error) {
	switch backend {
	case storeBackendMemory:
		return scorestore.NewMemoryStore(), nil
	case storeBackendMongo:
		return scorestore.NewMongoStore(ctx, mongoURI, mongoDB)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want memory or mongo)", backend)
	}
}
