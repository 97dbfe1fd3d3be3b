package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/spigell/resume-match/internal/analyzer"
	"github.com/spigell/resume-match/internal/objectstore"
	"github.com/spigell/resume-match/internal/queue"
	"github.com/spigell/resume-match/internal/secrets"
	"github.com/spigell/resume-match/internal/service"
	"github.com/spigell/resume-match/internal/storage"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume analysis jobs from RabbitMQ",
	Run: func(_ *cobra.Command, _ []string) {
		work()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)

	workerCmd.Flags().IntP("workers", "w", queue.DefaultWorkers, "number of concurrent consumers")

	viper.BindPFlag("queue.workers", workerCmd.Flags().Lookup("workers"))
}

func work() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()
	defer logger.Sync()

	logger.Info("starting the resume-match worker", zap.String("version", version))

	url, err := secrets.Load(secrets.Source{
		Name:  "amqp url",
		Value: config.Queue.URL,
		File:  config.Queue.URLFile,
		Env:   "AMQP_URL",
	})
	if err != nil {
		logger.Fatal("loading amqp url",
			zap.Error(err),
			zap.String("hint", "set queue.url, queue.url-file or the AMQP_URL environment variable"),
		)
	}

	files, err := newDownloader(ctx, config.ObjectStore)
	if err != nil {
		logger.Fatal("creating object store client", zap.Error(err))
	}

	saver, err := storage.Open(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err))
	}
	if saver != nil {
		defer saver.Close()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Fatal("connecting to rabbitmq", zap.Error(err))
	}
	defer conn.Close()

	processor := queue.NewProcessor(queue.ProcessorDeps{
		Analyzer:  service.New(analyzer.New(config.Analyzer), nil, logger),
		Files:     files,
		Saver:     saver,
		Publisher: queue.NewAMQPPublisher(conn, config.Queue.Exchange),
		Retry:     config.Queue.Retry,
		Logger:    logger,
	})

	err = queue.NewConsumer(config.Queue, processor, logger).Run(ctx, conn)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", zap.Error(err))
		return
	}

	logger.Info("worker stopped")
}

// newDownloader returns nil when no bucket is configured; jobs must then carry inline resume text.
func newDownloader(ctx context.Context, cfg objectstore.Config) (queue.Downloader, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	secretKey, err := secrets.Load(secrets.Source{
		Name:  "object store secret key",
		Value: cfg.SecretKey,
		File:  cfg.SecretKeyFile,
		Env:   "S3_SECRET_ACCESS_KEY",
	})
	if err != nil {
		return nil, err
	}

	client, err := objectstore.New(ctx, cfg, secretKey)
	if err != nil {
		return nil, err
	}
	return client, nil
}
