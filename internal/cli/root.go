package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"formlens/internal/config"
)

// NewRootCmd builds the formlens command tree
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "formlens",
		Short: "Form usability feedback from respondent behavior",
		Long: `formlens analyzes how respondents move through a form (time spent, skips,
completion) together with the form's questions and fields, and reports which
questions hurt usability and how to fix them.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String("config", "config", "Directory containing config.yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(
		NewAnalyzeCmd(),
		NewRecordCmd(),
		NewCategoriesCmd(),
		newVersionCmd(version),
	)

	return rootCmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("formlens version %s\n", version)
		},
	}
}

// loadConfig reads configuration and builds the command logger
func loadConfig(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	log := zap.NewNop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return nil, nil, err
		}
		log = dev
	}

	configDir, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configDir, log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
