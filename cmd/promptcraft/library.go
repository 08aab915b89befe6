// cmd/promptcraft/library.go
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the prompt library",
	}

	cmd.AddCommand(newLibraryListCmd())
	cmd.AddCommand(newLibrarySyncCmd())

	return cmd
}

func newLibraryListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the library entries from the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), "stderr")
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.store.List(cmd.Context(), category)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list entries in this category")

	return cmd
}

func newLibrarySyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Index the library store into Elasticsearch",
		Long: `Copy every entry of the library store (PostgreSQL when enabled, otherwise
the built-in seed) into the Elasticsearch index used by library search.
The index is created with its mapping when it does not exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer a.Close()

			if a.flows.Search == nil {
				return fmt.Errorf("library search is disabled in config")
			}

			entries, err := a.store.List(cmd.Context(), "")
			if err != nil {
				return err
			}

			indexed, err := a.flows.Search.IndexEntries(cmd.Context(), entries)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d of %d library entries\n", indexed, len(entries))
			return nil
		},
	}
}
