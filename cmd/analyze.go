package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-match/internal/analyzer"
	"github.com/spigell/resume-match/internal/extract"
	"github.com/spigell/resume-match/internal/service"
	"github.com/spigell/resume-match/internal/storage"
)

const (
	PromptExit        = "Exit"
	PromptSave        = "Save analysis to storage"
	PromptShowMissing = "Show missing skills"
	PromptReportFile  = "Dump report to file"
)

var (
	errExit            = errors.New("exit requested")
	errStorageDisabled = errors.New("storage is not configured (set storage.driver)")
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare one resume against one job description",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "resume file (pdf, docx, doc or text), - reads stdin")
	analyzeCmd.Flags().String("job", "", "job description file, - reads stdin")
	analyzeCmd.Flags().String("job-text", "", "job description text, used instead of --job")
	analyzeCmd.Flags().StringP("title", "t", "", "job title stored with the analysis")
	analyzeCmd.Flags().BoolP("save", "s", false, "save the analysis to the configured storage")
	analyzeCmd.Flags().BoolP("auto-aprove", "y", false, "print the report and exit without prompting")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-text")
	analyzeCmd.MarkFlagsOneRequired("job", "job-text")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := setup()

	resumePath, _ := cmd.Flags().GetString("resume")
	if jobPath, _ := cmd.Flags().GetString("job"); resumePath == "-" && jobPath == "-" {
		logger.Fatal("only one of --resume and --job can read stdin")
	}
	resumeText, err := readDocument(resumePath, os.Stdin)
	if err != nil {
		logger.Fatal("reading resume", zap.Error(err))
	}

	jobText, err := jobDescription(cmd)
	if err != nil {
		logger.Fatal("reading job description", zap.Error(err))
	}

	saver, err := storage.Open(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err))
	}
	if saver != nil {
		defer saver.Close()
	}

	save, _ := cmd.Flags().GetBool("save")
	title, _ := cmd.Flags().GetString("title")
	req := service.Request{
		ResumeText:     resumeText,
		JobDescription: jobText,
		JobTitle:       title,
		UserID:         config.UserID,
		Save:           save,
	}

	svc := service.New(analyzer.New(config.Analyzer), saver, logger)
	report, err := svc.Analyze(ctx, req)
	if err != nil {
		logger.Fatal("analyzing", zap.Error(err))
	}

	if err := printJSON(report); err != nil {
		logger.Fatal("printing report", zap.Error(err))
	}

	if auto, _ := cmd.Flags().GetBool("auto-aprove"); auto {
		return
	}

	items := []string{PromptShowMissing, PromptReportFile}
	if saver != nil {
		items = append(items, PromptSave)
	}

	prompt := promptui.Select{
		Label: fmt.Sprintf("Match %d%%. What next?", report.MatchPercentage),
		Items: append(items, PromptExit),
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAnalyzeAction(ctx, action, logger, saver, req, report); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAnalyzeAction(ctx context.Context, action string, logger *zap.Logger, saver storage.Saver, req service.Request, report *analyzer.Report) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptShowMissing:
		if len(report.MissingSkills) == 0 {
			fmt.Println("No missing skills.")
			return nil
		}
		fmt.Println(strings.Join(report.MissingSkills, "\n"))
		return nil
	case PromptReportFile:
		filename, err := dumpToTmpFile("report_*.json", report)
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptSave:
		if saver == nil {
			return errStorageDisabled
		}
		record := storage.NewRecord(req.UserID, req.JobTitle, req.JobDescription, req.ResumeText, report)
		if err := saver.Save(ctx, record); err != nil {
			return fmt.Errorf("saving analysis: %w", err)
		}
		logger.Info("analysis saved", zap.String("analysis_id", record.ID.String()))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func jobDescription(cmd *cobra.Command) (string, error) {
	if text, _ := cmd.Flags().GetString("job-text"); strings.TrimSpace(text) != "" {
		return text, nil
	}

	path, _ := cmd.Flags().GetString("job")
	if path == "" {
		return "", errors.New("either --job or --job-text is required")
	}
	return readDocument(path, os.Stdin)
}

// readDocument extracts text from a file, or from stdin when path is "-".
func readDocument(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		return extract.Reader(stdin, "")
	}
	return extract.File(path)
}

func printJSON(v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}

func dumpToTmpFile(pattern string, v any) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}
