package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/custodia-labs/scoperag/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/scoperag/internal/logger"
)

var (
	serveAddr   string
	serveCorpus string
	serveWatch  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP query API",
	Long: `Load the corpus and serve the HTTP API.

Endpoints:
  POST /query            {"text": "...", "num_results": 3}
  POST /load             raw corpus text
  POST /reload           re-read the corpus file
  GET  /stats            index statistics
  GET  /entries/{n}      entry at position n
  GET  /healthz, /readyz

The corpus file must exist at startup. With --watch, edits to the file
are picked up without a restart; a bad edit keeps the previous corpus.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings)")
	serveCmd.Flags().StringVarP(&serveCorpus, "corpus", "c", "", "corpus file (default from settings)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload when the corpus file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	logger.ShowInfo(true)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, _, err := startRuntime(ctx, serveCorpus)
	if err != nil {
		return err
	}
	defer rt.Close()

	addr := rt.settings.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	if serveWatch || rt.settings.Corpus.Watch {
		go func() {
			if err := rt.corpus.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.L().Error("corpus watcher stopped", zap.Error(err))
			}
		}()
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Retrieval: rt.retrieval,
		Corpus:    rt.corpus,
	}, httpapi.Config{
		Addr:        addr,
		CORSOrigins: rt.settings.Server.CORSOrigins,
		Logger:      logger.L(),
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	cmd.Printf("Serving %d entries on %s\n", rt.retrieval.Stats().Entries, addr)
	return server.Run(ctx)
}
