package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import conversations from a JSON export",
	Long: `Import conversations from a JSON file produced by export (or by a
compatible client). The file may hold a single conversation object or an
array of them.

Imported conversations are merged with existing ones. When the same
conversation exists on both sides, the more recently updated version wins.
Records that are not recognizable as conversations are skipped; fields
with unusable values are individually repaired or dropped.

Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readImportData(args[0])
		if err != nil {
			return err
		}

		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		count, err := store.Import(raw)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d conversation(s). Collection now holds %d.\n", count, len(store.List()))
		reportPersistWarning(store)
		return nil
	},
}

func readImportData(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
