package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgersift/ledgersift/internal/storage"
)

func importCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <records.json>",
		Short: "Import a normalized record snapshot into the history database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecordsFile(args[0])
			if err != nil {
				return err
			}

			store, err := storage.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveRecords(cmd.Context(), records); err != nil {
				return err
			}

			slog.Info("Imported records", "count", len(records), "db", dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "ledgersift.db", "record history database (SQLite)")
	return cmd
}
