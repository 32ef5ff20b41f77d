package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/abikit/internal/presentation"
)

var blobFetchOut string

var blobStoreCmd = &cobra.Command{
	Use:   "blob:store <file>",
	Short: "Store a file in the persistent blob store and print its key",
	Long: `Store a file in the persistent blob store and print its key. Use "-" to read
standard input. Blobs stored from the command line always go to the sqlite
database at blob.db_path so later invocations can read them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		store, closeStore, err := openBlobStore(true)
		if err != nil {
			return err
		}
		defer closeStore()

		key, err := store.Store(cmd.Context(), data)
		if err != nil {
			return err
		}
		f, err := formatter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return f.Format(presentation.BlobDTO{Key: key, Size: len(data)})
	},
}

var blobFetchCmd = &cobra.Command{
	Use:   "blob:fetch <key>",
	Short: "Write a stored blob to stdout or a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openBlobStore(true)
		if err != nil {
			return err
		}
		defer closeStore()

		data, ok := store.Fetch(cmd.Context(), args[0])
		if !ok {
			return fmt.Errorf("no blob stored under %s", args[0])
		}
		if blobFetchOut == "" || blobFetchOut == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		return os.WriteFile(blobFetchOut, data, 0o600)
	},
}

var blobRemoveCmd = &cobra.Command{
	Use:   "blob:remove <key>",
	Short: "Remove a stored blob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openBlobStore(true)
		if err != nil {
			return err
		}
		defer closeStore()
		return store.Remove(cmd.Context(), args[0])
	},
}

var blobPurgeCmd = &cobra.Command{
	Use:   "blob:purge",
	Short: "Delete expired blobs from the persistent store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, closeStore, err := openBlobStore(true)
		if err != nil {
			return err
		}
		defer closeStore()

		n, err := store.PurgeExpired(cmd.Context())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired blobs\n", n)
		return nil
	},
}

func init() {
	blobFetchCmd.Flags().StringVarP(&blobFetchOut, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(blobStoreCmd, blobFetchCmd, blobRemoveCmd, blobPurgeCmd)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is a command argument
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
