package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewCategoriesCmd lists the fallback question table
func NewCategoriesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List form categories and their fallback questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			table, err := categoriesFor(cfg, file)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			heading := color.New(color.FgCyan, color.Bold)
			for _, c := range table.Categories {
				heading.Fprintln(w, c.Name)
				for _, q := range c.Questions {
					cmd.Printf("   - %s\n", q)
				}
			}
			heading.Fprintln(w, "(default)")
			for _, q := range table.Default {
				cmd.Printf("   - %s\n", q)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Category table YAML (default: configured or built-in)")
	return cmd
}
