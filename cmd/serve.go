package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-match/internal/analyzer"
	"github.com/spigell/resume-match/internal/server"
	"github.com/spigell/resume-match/internal/service"
	"github.com/spigell/resume-match/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", server.DefaultAddr, "address to listen on")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()
	defer logger.Sync()

	logger.Info("starting the resume-match server", zap.String("version", version))

	saver, err := storage.Open(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err))
	}
	if saver != nil {
		defer saver.Close()
	}

	svc := service.New(analyzer.New(config.Analyzer), saver, logger)

	if err := server.New(config.Server, svc, logger).Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}
