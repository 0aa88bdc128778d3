package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tinypay.dev/paykit/model"
	"tinypay.dev/paykit/storage"
	"tinypay.dev/paykit/storage/localfs"
)

func (a *app) recordCmd() *cobra.Command {
	var storeDir string
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Inspect workflow records saved with --store",
	}
	get := &cobra.Command{
		Use:   "get <cid>",
		Short: "Print a stored workflow record as JSON",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			if storeDir == "" {
				storeDir = a.cfg.Store.Dir
			}
			if storeDir == "" {
				return usageError{fmt.Errorf("no store directory: pass --store or set store.dir")}
			}
			cas, err := localfs.New(storeDir)
			if err != nil {
				return err
			}
			rec, err := storage.RecordStore{CAS: cas}.LoadString(argv[0])
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(model.StoredRecord{CID: argv[0], Record: rec}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, string(b))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&storeDir, "store", "", "Store directory (default from config)")
	cmd.AddCommand(get)
	return cmd
}
