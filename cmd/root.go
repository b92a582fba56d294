package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/embedding"
	"github.com/spigell/resume-fit/internal/engine"
	"github.com/spigell/resume-fit/internal/logger"
	"github.com/spigell/resume-fit/internal/server"
)

const (
	app       = "resume-fit"
	envPrefix = "RESUME_FIT"
)

type Config struct {
	Engine         engine.Config    `mapstructure:"engine" yaml:"engine"`
	VocabularyFile string           `mapstructure:"vocabulary-file" yaml:"vocabulary-file"`
	ExcludeFile    string           `mapstructure:"exclude-file" yaml:"exclude-file"`
	Embedding      embedding.Config `mapstructure:"embedding" yaml:"embedding"`
	Headhunter     HeadhunterConfig `mapstructure:"headhunter" yaml:"headhunter"`
	Serve          server.Config    `mapstructure:"serve" yaml:"serve"`
}

type HeadhunterConfig struct {
	TokenFile string `mapstructure:"token-file" yaml:"token-file"`
	UserAgent string `mapstructure:"user-agent" yaml:"user-agent"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-fit scores how well a résumé covers a job description",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig()
		},
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("headhunter.token-file", "HH_TOKEN_FILE"); err != nil {
		log.Fatalf("binding HH_TOKEN_FILE environment variable: %v", err)
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-fit.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("exclude-file", "e", "", "file with phrases that are never scored")
	rootCmd.PersistentFlags().String("extractor", "", "requirement extractor: ngram, pos or dictionary")
	rootCmd.PersistentFlags().Bool("embeddings", false, "enable the embedding model")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("exclude-file", rootCmd.PersistentFlags().Lookup("exclude-file"))
	viper.BindPFlag("engine.extractor", rootCmd.PersistentFlags().Lookup("extractor"))
	viper.BindPFlag("embedding.enabled", rootCmd.PersistentFlags().Lookup("embeddings"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	def := engine.DefaultConfig()
	v.SetDefault("engine.extractor", def.Extractor)
	v.SetDefault("engine.max-words", def.MaxWords)
	v.SetDefault("engine.min-phrase-count", def.MinPhraseCount)
	v.SetDefault("engine.short-document-tokens", def.ShortDocumentTokens)
	v.SetDefault("engine.cue-window", def.CueWindow)
	v.SetDefault("engine.similarity-threshold", def.SimilarityThreshold)
	v.SetDefault("engine.coverage-weight", def.CoverageWeight)
	v.SetDefault("engine.semantic-weight", def.SemanticWeight)
	v.SetDefault("engine.repeat-bonus", def.RepeatBonus)
	v.SetDefault("engine.keep-symbols", def.KeepSymbols)

	v.SetDefault("embedding.enabled", false)
	v.SetDefault("embedding.provider", embedding.ProviderGemini)
	v.SetDefault("embedding.max-retries", 3)
	v.SetDefault("embedding.requests-per-second", 5)
	v.SetDefault("embedding.cache-ttl", "1h")

	v.SetDefault("serve.listen", server.DefaultListen)
	v.SetDefault("serve.timeout", server.DefaultTimeout)
}

func initConfig() error {
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
		// The default config file is optional, an explicit one is not.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	return nil
}

func getConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	config.Engine.ExcludeFile = config.ExcludeFile

	return &config, nil
}

func newLogger() *zap.Logger {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return logger
}
