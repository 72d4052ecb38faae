package main

import (
	"github.com/danuartha/kopistore/internal/server"
	"github.com/spf13/cobra"
)

// kopistore serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Run()
	},
}
