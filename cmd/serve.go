package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve analyses over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", server.DefaultListen, "address to listen on")
	serveCmd.Flags().Duration("timeout", server.DefaultTimeout, "timeout of a single analysis")

	viper.BindPFlag("serve.listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("serve.timeout", serveCmd.Flags().Lookup("timeout"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	analyzer, err := newAnalyzer(config, logger)
	if err != nil {
		logger.Fatal("creating analyzer", zap.Error(err))
	}

	logger.Info("starting the resume-fit server", zap.String("version", version))

	if err := server.New(config.Serve, analyzer, logger).ListenAndServe(ctx); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}
