package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NguyenNhatCP/cuttingsync/config"
	"github.com/NguyenNhatCP/cuttingsync/core/auditlog"
	"github.com/NguyenNhatCP/cuttingsync/core/logging"
	syncService "github.com/NguyenNhatCP/cuttingsync/service/sync"
)

var syncCmd = &cobra.Command{
	Use:   "data:sync",
	Short: "Sync today's cutting plans from the source service into the database",
	Run: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		logging.Setup()
		cfg := config.AppConfig

		audit, err := auditlog.New(cfg.ErrorLogPath, cfg.SuccessLogPath)
		if err != nil {
			fmt.Printf("Failed to open audit logs: %v\n", err)
			os.Exit(1)
		}
		defer audit.Close()

		db, err := config.NewDB()
		if err != nil {
			audit.Error("Database connection failed: %v", err)
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		sqldb, err := db.DB()
		if err != nil {
			audit.Error("Database connection failed: %v", err)
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		if err := sqldb.Ping(); err != nil {
			audit.Error("Database connection failed: %v", err)
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}

		source := syncService.NewSourceClient(cfg.SourceBaseURL, cfg.ThrottlePhrase, audit)
		runner := syncService.NewRunner(db, source, syncService.NewBatchInserter(db, audit), audit)
		if err := runner.Run(context.Background()); err != nil {
			fmt.Printf("Sync failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Data sync complete.")
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
