package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/engine"
	"github.com/spigell/resume-fit/internal/filtering"
)

const (
	PromptShowMatched   = "Show matched phrases"
	PromptShowMissing   = "Show missing phrases"
	PromptShowTiers     = "Show phrase tiers"
	PromptExcludePhrase = "Exclude a phrase"
	PromptResultToFile  = "Dump result to file"
	PromptExit          = "Exit"
	PromptBack          = "back"

	outputText = "text"
	outputJSON = "json"

	excludeReason = "excluded from interactive menu"
)

var errExit = errors.New("exit requested")

var sources sourceFlags

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a résumé against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&sources.resumeFile, "resume", "", "résumé file (pdf, docx or text)")
	analyzeCmd.Flags().StringVar(&sources.resumeID, "resume-id", "", "hh.ru résumé id")
	analyzeCmd.Flags().StringVar(&sources.resumeTitle, "resume-title", "", "title of one of your hh.ru résumés")
	analyzeCmd.Flags().StringVar(&sources.jobFile, "job", "", "job description file (pdf, docx or text)")
	analyzeCmd.Flags().StringVar(&sources.vacancyID, "vacancy-id", "", "hh.ru vacancy id")
	analyzeCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	analyzeCmd.Flags().BoolP("interactive", "i", false, "open a menu to explore the result")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	output, _ := cmd.Flags().GetString("output")
	if output != outputText && output != outputJSON {
		logger.Fatal("unsupported output format", zap.String("output", output))
	}

	job, err := sources.loadJob(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading job description", zap.Error(err))
	}

	resume, err := sources.loadResume(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err))
	}

	analyzer, err := newAnalyzer(config, logger)
	if err != nil {
		logger.Fatal("creating analyzer", zap.Error(err))
	}

	result, err := analyzer.Analyze(ctx, resume, job)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	if err := printResult(os.Stdout, result, output); err != nil {
		logger.Fatal("printing result", zap.Error(err))
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); !interactive {
		return
	}

	session := &session{
		analyzer:    analyzer,
		logger:      logger,
		resume:      resume,
		job:         job,
		result:      result,
		excludeFile: viper.GetString("exclude-file"),
	}
	if err := session.loop(ctx); err != nil && !errors.Is(err, errExit) {
		logger.Fatal("exiting", zap.Error(err))
	}
}

// session is the interactive menu over one analysis.
type session struct {
	analyzer    *engine.Analyzer
	logger      *zap.Logger
	resume, job string
	result      *engine.Result
	excludeFile string
}

func (s *session) loop(ctx context.Context) error {
	for {
		items := []string{PromptShowMatched, PromptShowMissing, PromptShowTiers}
		if s.excludeFile != "" && len(s.result.Phrases) > 0 {
			items = append(items, PromptExcludePhrase)
		}
		items = append(items, PromptResultToFile, PromptExit)

		prompt := promptui.Select{
			Label: fmt.Sprintf("Score %d. Next?", s.result.Score),
			Items: items,
		}
		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		if err := s.handleAction(ctx, action); err != nil {
			return err
		}
	}
}

func (s *session) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptShowMatched:
		printList(os.Stdout, "matched", s.result.Matched)
		return nil
	case PromptShowMissing:
		printList(os.Stdout, "missing", s.result.Missing)
		return nil
	case PromptShowTiers:
		printTiers(os.Stdout, s.result)
		return nil
	case PromptExcludePhrase:
		return s.excludePhrase(ctx)
	case PromptResultToFile:
		filename, err := s.result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump result to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// excludePhrase appends the selected phrase to the exclude file and reruns the
// analysis without it.
func (s *session) excludePhrase(ctx context.Context) error {
	items := make([]string, 0, len(s.result.Phrases)+1)
	for _, p := range s.result.Phrases {
		items = append(items, p.Text)
	}

	prompt := promptui.Select{
		Label: "Choose a phrase to exclude and press ENTER",
		Items: append(items, PromptBack),
	}
	_, selected, err := prompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	if err := filtering.ExcludeToFile(s.excludeFile, []string{selected}, excludeReason); err != nil {
		return err
	}
	s.logger.Info("appended to exclude file", zap.String("filename", s.excludeFile), zap.String("phrase", selected))

	result, err := s.analyzer.Analyze(ctx, s.resume, s.job)
	if err != nil {
		return fmt.Errorf("rerunning analysis: %w", err)
	}
	s.logger.Info("score updated", zap.Int("before", s.result.Score), zap.Int("after", result.Score))
	s.result = result

	return nil
}

func printResult(w io.Writer, result *engine.Result, output string) error {
	if output == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(w, "score: %d\n", result.Score)
	fmt.Fprintf(w, "coverage: %.2f semantic: %.2f (%s)\n", result.Coverage, result.Semantic, result.SemanticMethod)
	if result.Degraded {
		fmt.Fprintln(w, "embedding model unavailable: lexical scoring only")
	}
	printList(w, "matched", result.Matched)
	printList(w, "missing", result.Missing)
	return nil
}

func printList(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "%s (%d):\n", title, len(items))
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func printTiers(w io.Writer, result *engine.Result) {
	phrases := append([]engine.PhraseReport(nil), result.Phrases...)
	sort.SliceStable(phrases, func(i, j int) bool { return phrases[i].Tier > phrases[j].Tier })

	for _, p := range phrases {
		mark := " "
		if p.Satisfied {
			mark = "+"
		}
		fmt.Fprintf(w, "  %s %-6s %s\n", mark, p.Tier, strings.TrimSpace(p.Text))
	}
}
