package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var phrasesJobFile string

var phrasesCmd = &cobra.Command{
	Use:   "phrases",
	Short: "List the requirement phrases extracted from a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		phrases(cmd)
	},
}

func init() {
	rootCmd.AddCommand(phrasesCmd)

	phrasesCmd.Flags().StringVar(&phrasesJobFile, "job", "", "job description file (pdf, docx or text)")
	phrasesCmd.Flags().StringVar(&sources.vacancyID, "vacancy-id", "", "hh.ru vacancy id")
	phrasesCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
}

func phrases(cmd *cobra.Command) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	src := sourceFlags{jobFile: phrasesJobFile, vacancyID: sources.vacancyID}
	job, err := src.loadJob(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading job description", zap.Error(err))
	}

	analyzer, err := newAnalyzer(config, logger)
	if err != nil {
		logger.Fatal("creating analyzer", zap.Error(err))
	}

	found, err := analyzer.Phrases(ctx, job)
	if err != nil {
		logger.Fatal("extracting phrases", zap.Error(err))
	}

	if output, _ := cmd.Flags().GetString("output"); output == outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(found.Items); err != nil {
			logger.Fatal("printing phrases", zap.Error(err))
		}
		return
	}

	for _, p := range found.Items {
		fmt.Printf("%-6s %3d  %s\n", p.Tier, p.Occurrences, p.Text)
	}
}
