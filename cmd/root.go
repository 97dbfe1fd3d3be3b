package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-match/internal/analyzer"
	"github.com/spigell/resume-match/internal/filtering"
	"github.com/spigell/resume-match/internal/logger"
	"github.com/spigell/resume-match/internal/objectstore"
	"github.com/spigell/resume-match/internal/queue"
	"github.com/spigell/resume-match/internal/server"
	"github.com/spigell/resume-match/internal/storage"
)

const (
	app       = "resume-match"
	envPrefix = "RESUME_MATCH"
)

type Config struct {
	UserID      string             `mapstructure:"user-id"`
	Analyzer    analyzer.Config    `mapstructure:"analyzer"`
	Filters     filtering.Config   `mapstructure:"filters"`
	Storage     storage.Config     `mapstructure:"storage"`
	Server      server.Config      `mapstructure:"server"`
	Queue       queue.Config       `mapstructure:"queue"`
	ObjectStore objectstore.Config `mapstructure:"object-store"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-match extracts skills from resumes and job descriptions and scores how well they match",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

// setDefaults registers every key so environment variables can override values
// that are absent from the config file.
func setDefaults() {
	viper.SetDefault("user-id", "")

	viper.SetDefault("analyzer.similarity-threshold", analyzer.DefaultSimilarityThreshold)
	viper.SetDefault("analyzer.max-key-length", analyzer.DefaultMaxKeyLength)
	viper.SetDefault("analyzer.max-text-length", analyzer.DefaultMaxTextLength)
	viper.SetDefault("analyzer.text-preview-length", analyzer.DefaultTextPreviewLength)
	viper.SetDefault("analyzer.skill-preview-length", analyzer.DefaultSkillPreviewLength)

	viper.SetDefault("filters.exclude-file", "")
	viper.SetDefault("filters.minimum-match", 0)
	viper.SetDefault("filters.must-have", []string{})

	viper.SetDefault("storage.driver", storage.DriverNone)
	viper.SetDefault("storage.dsn", "")
	viper.SetDefault("storage.dsn-file", "")
	viper.SetDefault("storage.path", app+".db")

	viper.SetDefault("server.addr", server.DefaultAddr)
	viper.SetDefault("server.max-body-bytes", server.DefaultMaxBodyBytes)
	viper.SetDefault("server.shutdown-timeout", server.DefaultShutdownTimeout)

	viper.SetDefault("queue.url", "")
	viper.SetDefault("queue.url-file", "")
	viper.SetDefault("queue.queue", queue.DefaultQueue)
	viper.SetDefault("queue.exchange", queue.DefaultExchange)
	viper.SetDefault("queue.workers", queue.DefaultWorkers)
	viper.SetDefault("queue.prefetch", 1)
	viper.SetDefault("queue.retry.attempts", 3)
	viper.SetDefault("queue.retry.step", "500ms")

	viper.SetDefault("object-store.endpoint", "")
	viper.SetDefault("object-store.region", "")
	viper.SetDefault("object-store.bucket", "")
	viper.SetDefault("object-store.access-key", "")
	viper.SetDefault("object-store.secret-key", "")
	viper.SetDefault("object-store.secret-key-file", "")
	viper.SetDefault("object-store.max-object-bytes", 10<<20)
}

func initConfig() {
	// .env is optional. Values already present in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The default config file may be absent. An explicit one must exist.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}

	return config, nil
}

// setup builds the logger and decodes the config shared by every command.
func setup() (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Debug(fmt.Sprintf("config file in use: %q", viper.ConfigFileUsed()))

	return l, config
}
