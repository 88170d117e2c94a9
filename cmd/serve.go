package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/ask-my-resume/internal/chat"
	"github.com/spigell/ask-my-resume/internal/server"
	"github.com/spigell/ask-my-resume/internal/session"
)

// shutdownTimeout bounds how long in-flight turns may run after a stop signal.
const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat over a JSON HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "address to listen on (default :8080)")
	viper.BindPFlag("serve.address", serveCmd.Flags().Lookup("address"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(false)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config := loadConfig(logger)

	logger.Info("starting the ask-my-resume server", zap.String("version", version))

	deps, err := newChatDeps(ctx, config, logger)
	if err != nil {
		if errors.Is(err, chat.ErrContextMissing) {
			logger.Fatal("resume is not available", zap.Error(err),
				zap.String("hint", "set resume-file, --resume or ASK_MY_RESUME_RESUME_FILE"))
		}
		logger.Fatal("preparing the chat", zap.Error(err))
	}

	store := session.NewStore(config.Serve.Sessions, deps, logger)
	srv := server.New(config.Serve.HTTP, store, logger)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}

	logger.Info("server stopped")
}
