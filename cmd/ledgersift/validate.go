package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgersift/ledgersift/internal/cli"
	"github.com/ledgersift/ledgersift/internal/engine"
)

func validateCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "validate <records.json>",
		Short: "Detect duplicates and annotate groups with validation warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := matchConfig()
			if err != nil {
				return err
			}

			records, err := loadRecordsFile(args[0])
			if err != nil {
				return err
			}

			eng, err := buildEngine(cmd.Context(), cfg, dbPath, records)
			if err != nil {
				return err
			}

			groups := eng.FindDuplicates(records)
			validated := engine.NewValidator(cfg, nil).ValidateGroups(groups)

			fmt.Print(cli.RenderValidatedGroups(validated))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "record history database (SQLite)")
	return cmd
}
