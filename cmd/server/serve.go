package main

import (
	"fmt"
	"log"

	"github.com/garminreport/internal/handler"
	"github.com/garminreport/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trigger server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listenAddr != "" {
			cfg.ListenAddr = listenAddr
		}

		gin.SetMode(cfg.GinMode)
		r := router.SetupRouter(handler.NewAPI(services))

		log.Printf("[HTTP] listening on %s", cfg.ListenAddr)
		if err := r.Run(cfg.ListenAddr); err != nil {
			return fmt.Errorf("failed to run server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides LISTEN_ADDR / PORT)")
}
