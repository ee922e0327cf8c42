package main

import (
	"github.com/spf13/cobra"

	"leadforge/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			return a.Serve(cmd.Context())
		})
	},
}
