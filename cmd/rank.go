package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-match/internal/analyzer"
	"github.com/spigell/resume-match/internal/filtering"
	"github.com/spigell/resume-match/internal/postings"
	"github.com/spigell/resume-match/internal/storage"
)

const (
	PromptReportByMatch       = "Report by match"
	PromptPostingsToFile      = "Dump postings to file"
	PromptAppendToExcludeFile = "Append all postings to exclude file"
	PromptSaveAll             = "Save all analyses to storage"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Score one resume against many job descriptions and filter the results",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("resume", "r", "", "resume file (pdf, docx, doc or text), - reads stdin")
	rankCmd.Flags().StringSlice("jobs", nil, "job description files")
	rankCmd.Flags().StringP("exclude-file", "e", "", "special file with postings to exclude. Default is unset.")
	rankCmd.Flags().Int("minimum-match", 0, "drop postings below this match percentage")
	rankCmd.Flags().StringSlice("must-have", nil, "skills every posting must match")
	rankCmd.Flags().StringSlice("skip-filter", nil, "filters to disable by name")
	rankCmd.Flags().BoolP("auto-aprove", "y", false, "print the report and exit without prompting")

	rankCmd.MarkFlagRequired("resume")
	rankCmd.MarkFlagRequired("jobs")

	viper.BindPFlag("filters.exclude-file", rankCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("filters.minimum-match", rankCmd.Flags().Lookup("minimum-match"))
	viper.BindPFlag("filters.must-have", rankCmd.Flags().Lookup("must-have"))
}

func rank(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := setup()

	resumePath, _ := cmd.Flags().GetString("resume")
	resumeText, err := readDocument(resumePath, os.Stdin)
	if err != nil {
		logger.Fatal("reading resume", zap.Error(err))
	}

	jobs, _ := cmd.Flags().GetStringSlice("jobs")
	list, err := postings.Load(jobs)
	if err != nil {
		logger.Fatal("loading postings", zap.Error(err))
	}

	logger.Info("postings loaded", zap.Int("count", list.Len()))

	a := analyzer.New(config.Analyzer)
	list.Analyze(a, resumeText)

	steps := filtering.Default()
	skipped, _ := cmd.Flags().GetStringSlice("skip-filter")
	for _, name := range skipped {
		filtering.DisableByName(steps, strings.TrimSpace(name), "skip requested via flag")
	}

	statuses, _ := json.Marshal(filtering.Describe(steps))
	logger.Debug("filters", zap.String("statuses", string(statuses)))

	list, err = filtering.Run(ctx, &config.Filters, filtering.Deps{Logger: logger, Matcher: a.Matcher()}, steps, list)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if list.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after filters"))
		return
	}

	list.SortByMatch()

	if err := printJSON(list.Report()); err != nil {
		logger.Fatal("printing report", zap.Error(err))
	}

	if auto, _ := cmd.Flags().GetBool("auto-aprove"); auto {
		return
	}

	saver, err := storage.Open(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err))
	}
	if saver != nil {
		defer saver.Close()
	}

	for {
		items := []string{PromptReportByMatch, PromptPostingsToFile}
		if saver != nil {
			items = append(items, PromptSaveAll)
		}
		if config.Filters.ExcludeFile != "" && list.Len() != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		prompt := promptui.Select{
			Label: "Procced?",
			Items: append(items, PromptExit),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of postings", zap.Int("count", list.Len()))

		err = handleRankAction(ctx, action, logger, config, saver, list, resumeText)
		if err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleRankAction(ctx context.Context, action string, logger *zap.Logger, config *Config, saver storage.Saver, list *postings.Postings, resumeText string) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByMatch:
		return printJSON(list.Report())
	case PromptPostingsToFile:
		filename, err := list.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptSaveAll:
		if saver == nil {
			return errStorageDisabled
		}
		for _, posting := range list.Items {
			record := storage.NewRecord(config.UserID, posting.Title, posting.Text, resumeText, posting.Report)
			if err := saver.Save(ctx, record); err != nil {
				return fmt.Errorf("saving analysis for %s: %w", posting.ID, err)
			}
		}
		logger.Info("analyses saved", zap.Int("count", list.Len()))
		return nil
	case PromptAppendToExcludeFile:
		excludeFile := config.Filters.ExcludeFile
		excluded, err := postings.ExcludedFromFile(excludeFile)
		if err != nil {
			return err
		}

		excluded.Append(list.ToExcluded())

		if err = excluded.ToFile(excludeFile); err != nil {
			return err
		}

		logger.Info("appended to exclude file", zap.String("filename", excludeFile))

		list.Exclude(excluded.IDs())
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
