package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"formlens/internal/model"
	"formlens/internal/repository"
)

type recordOptions struct {
	logsPath  string
	entryPath string
}

// NewRecordCmd appends one submission log to a log file
func NewRecordCmd() *cobra.Command {
	opts := &recordOptions{}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Append a submission log to a log file",
		Long: `Append one submission log ({"form_completed": ..., "responses": [...]}) to
a JSON log file, creating the file when needed.

Examples:
  formlens record --entry submission.json
  cat submission.json | formlens record --logs form_logs.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.logsPath, "logs", "form_logs.json", "JSON array of submission logs")
	cmd.Flags().StringVar(&opts.entryPath, "entry", "", "File holding the submission log (default stdin)")

	return cmd
}

func runRecord(cmd *cobra.Command, opts *recordOptions) error {
	_, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var data []byte
	if opts.entryPath != "" {
		data, err = os.ReadFile(opts.entryPath)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading submission: %w", err)
	}

	var entry model.SubmissionLog
	if err := json.Unmarshal(data, &entry); err != nil {
		return fmt.Errorf("parsing submission: %w", err)
	}
	entry = entry.Sanitized()

	if err := repository.NewLogFileStore(opts.logsPath, log).Append(entry); err != nil {
		return fmt.Errorf("writing log file: %w", err)
	}
	printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Recorded submission with %d responses", len(entry.Responses)))
	return nil
}
