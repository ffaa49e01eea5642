package main

import (
	"fmt"
	_ "time/tzdata"

	"github.com/garminreport/internal/config"
	"github.com/garminreport/internal/service"
	"github.com/spf13/cobra"
)

var (
	cfg      config.AppConfig
	services *service.Services
	dbDir    string
)

var rootCmd = &cobra.Command{
	Use:   "garmin-report",
	Short: "Daily Garmin fitness summary mailer",
	Long: `garmin-report reads yesterday's and last month's Garmin summaries from
sqlite, asks a chat-completion model for a short narrative and mails an
HTML comparison report through Mailgun.

  $ garmin-report serve        # HTTP trigger on GET /send-summary
  $ garmin-report send         # run the pipeline once and exit

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if dbDir != "" {
			cfg.SummaryDBDir = dbDir
		}

		var err error
		services, err = service.NewServices(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDir, "db-dir", "", "directory containing garmin_summary.db (overrides GARMIN_SUMMARY_DB_PATH)")
	rootCmd.AddCommand(serveCmd, sendCmd)
}
