package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jamspace/jamspace/internal/repository"
	"github.com/spf13/cobra"
)

func KVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kv",
		Short: "Inspect the key-value store",
	}

	cmd.AddCommand(kvGetCmd())
	cmd.AddCommand(kvScanCmd())
	return cmd
}

func kvGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored at key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			value, err := repository.NewSQLKVStore(database).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), value)
		},
	}
}

func kvScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <prefix>",
		Short: "Print every value whose key starts with prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			values, err := repository.NewSQLKVStore(database).GetByPrefix(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, v := range values {
				err = printJSON(cmd.OutOrStdout(), v)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	err := json.Indent(&buf, raw, "", "  ")
	if err != nil {
		return fmt.Errorf("stored value is not JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}
