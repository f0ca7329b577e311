package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"formlens/internal/app"
	"formlens/internal/config"
	"formlens/internal/metrics"
	"formlens/internal/model"
	"formlens/internal/repository"
	"formlens/internal/service"
)

type analyzeOptions struct {
	logsPath     string
	fieldsPath   string
	category     string
	outputFormat string
}

// NewAnalyzeCmd runs the feedback engine over a log file and a fields file
func NewAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a form's submission logs and fields",
		Long: `Analyze respondent behavior stored in a JSON log file together with the
form's field definitions.

Examples:
  # Analyze the default log file
  formlens analyze --fields fields.json

  # Include suggested questions for a category
  formlens analyze --logs form_logs.json --fields fields.json --category "Job Application Form"

  # Machine-readable output
  formlens analyze --fields fields.json -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.logsPath, "logs", "form_logs.json", "JSON array of submission logs")
	cmd.Flags().StringVar(&opts.fieldsPath, "fields", "", "JSON array of form fields")
	cmd.Flags().StringVar(&opts.category, "category", "", "Form category used to suggest questions")
	cmd.Flags().StringVarP(&opts.outputFormat, "output", "o", "human", "Output format (human, json, yaml)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fields, err := readFields(opts.fieldsPath)
	if err != nil {
		return err
	}
	logs := repository.NewLogFileStore(opts.logsPath, log).Load()

	var s *spinner.Spinner
	if opts.outputFormat == "human" {
		s = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " Analyzing form..."
		s.Start()
	}

	ctx := cmd.Context()
	embeddings := service.NewEmbeddingService(&cfg.AI, nil, log)
	if cfg.AI.IsEnabled() {
		// Start logs its own failure; redundancy then reports itself unavailable
		_ = embeddings.Start(ctx)
	}
	defer embeddings.Close()

	thresholds := service.ThresholdsFromConfig(cfg.Analysis)
	feedback := app.NewFeedbackService(embeddings, thresholds, metrics.Noop{}, log)
	questions := model.QuestionTexts(fields)

	var suggestions []string
	if opts.category != "" {
		categories, err := categoriesFor(cfg, "")
		if err != nil {
			if s != nil {
				s.Stop()
			}
			return err
		}
		suggestions = service.NewSuggestionService(&cfg.AI, categories, log).
			GenerateQuestions(ctx, opts.category, questions, thresholds.SuggestionCount)
	}

	report := feedback.Analyze(ctx, service.FeedbackInput{
		Logs:        logs,
		Questions:   questions,
		Fields:      fields,
		Suggestions: suggestions,
	})

	if s != nil {
		s.Stop()
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Analyzed %d submissions and %d questions", len(logs), len(questions)))
	}
	return DisplayReport(cmd.OutOrStdout(), report, opts.outputFormat)
}

func readFields(path string) ([]model.FormField, error) {
	if path == "" {
		return []model.FormField{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fields file: %w", err)
	}
	fields := []model.FormField{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parsing fields file: %w", err)
	}
	return fields, nil
}

// categoriesFor is shared by commands that only need the category table
func categoriesFor(cfg *config.Config, path string) (*config.CategoryTable, error) {
	if path == "" {
		path = cfg.CategoriesFile
	}
	return config.LoadCategories(path)
}
