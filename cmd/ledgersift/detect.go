package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ledgersift/ledgersift/internal/cli"
	"github.com/ledgersift/ledgersift/internal/engine"
	"github.com/ledgersift/ledgersift/internal/model"
)

func detectCmd() *cobra.Command {
	var (
		dbPath       string
		merchantName string
		recurring    bool
		split        bool
	)

	cmd := &cobra.Command{
		Use:   "detect <records.json>",
		Short: "Detect duplicate and related records in a snapshot",
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

			bar := progressbar.NewOptions(len(records),
				progressbar.OptionSetDescription("scanning"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)
			eng, err := buildEngine(cmd.Context(), cfg, dbPath, records,
				engine.WithProgress(func(done, _ int) {
					_ = bar.Set(done)
				}))
			if err != nil {
				return err
			}

			var groups []model.DuplicateGroup
			if merchantName != "" {
				groups = eng.FindDuplicatesForMerchant(records, merchantName)
			} else {
				groups = eng.FindDuplicates(records)
			}
			if recurring {
				groups = engine.RecurringGroups(groups)
			}
			if split {
				groups = engine.SplitGroups(groups)
			}

			_ = bar.Finish()
			fmt.Print(cli.RenderGroups(groups))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "record history database (SQLite)")
	cmd.Flags().StringVar(&merchantName, "merchant", "", "scope detection to one merchant")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "only show recurring-charge groups")
	cmd.Flags().BoolVar(&split, "split", false, "only show split-payment groups")
	return cmd
}
