package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"leadforge/internal/app"
	"leadforge/internal/pdf"
	"leadforge/internal/services"
)

var (
	exportOut string
	reportOut string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Top the store up with demo leads and opportunities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			res, err := a.Seeder.Seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d leads, %d opportunities\n", res.LeadsAdded, res.OpportunitiesAdded)
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every lead, opportunity and saved setting",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			if err := a.Settings.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all data cleared")
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:       "export {leads|opportunities}",
	Short:     "Write a CSV export",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"leads", "opportunities"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			var (
				exp *services.Export
				err error
			)
			switch args[0] {
			case "leads":
				exp, err = a.Export.ExportLeads(cmd.Context())
			default:
				exp, err = a.Export.ExportOpportunities(cmd.Context())
			}
			if err != nil {
				return err
			}
			path, err := exp.WriteFile(exportOut)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the pipeline report as PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			stats, err := a.Analytics.Summary(cmd.Context())
			if err != nil {
				return err
			}
			gen := a.PDF
			if reportOut != "" {
				gen = pdf.NewReportGenerator(reportOut, cfg.Files.FontPath)
			}
			path, err := gen.GenerateReport(stats, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "directory to write the CSV into")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "directory to write the PDF into (default files.root_dir)")
}
