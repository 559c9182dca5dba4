package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/diogo/dualchat/internal/history"
	"github.com/diogo/dualchat/internal/models"
)

var (
	exportFormatFlag    string
	exportOutputFlag    string
	exportAllFlag       bool
	exportClipboardFlag bool
)

var exportCmd = &cobra.Command{
	Use:   "export [ref]",
	Short: "Export conversations to JSON, text or HTML",
	Long: `Export a conversation (default: the active one) or the whole
collection. JSON exports can be re-imported with 'dualchat import'.

Examples:
  dualchat export                       Export the active conversation as JSON
  dualchat export @last -f txt          Export as a plain text transcript
  dualchat export --all -o backup.json  Export everything to a file
  dualchat export -f html -c            Copy an HTML export to the clipboard

` + history.ListAliases(),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := history.ParseExportFormat(exportFormatFlag)
		if err != nil {
			return err
		}

		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		content, defaultName, err := buildExport(store, args, format)
		if err != nil {
			return err
		}

		if exportClipboardFlag {
			if err := clipboard.WriteAll(content); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			fmt.Println("Export copied to clipboard.")
			return nil
		}

		if exportOutputFlag == "-" {
			fmt.Print(content)
			return nil
		}

		path := exportOutputFlag
		if path == "" {
			path = defaultName
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}

		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormatFlag, "format", "f", "json", "Export format: json, txt or html")
	exportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "Output file (\"-\" for stdout, default: derived from the title)")
	exportCmd.Flags().BoolVar(&exportAllFlag, "all", false, "Export every conversation")
	exportCmd.Flags().BoolVarP(&exportClipboardFlag, "clipboard", "c", false, "Copy the export to the clipboard instead of writing a file")
}

func buildExport(store *history.Store, args []string, format history.ExportFormat) (content, defaultName string, err error) {
	if exportAllFlag {
		conversations := store.List()
		if len(conversations) == 0 {
			return "", "", fmt.Errorf("nothing to export")
		}
		content, err = formatAll(conversations, format)
		if err != nil {
			return "", "", err
		}
		stamp := time.Now().Format("20060102-150405")
		return content, fmt.Sprintf("dualchat-export-%s.%s", stamp, format.Extension()), nil
	}

	ref := "@active"
	if len(args) > 0 {
		ref = args[0]
	}
	conv, err := history.NewResolver(store).ResolveWithInfo(ref)
	if err != nil {
		return "", "", err
	}

	content, err = formatOne(conv, format)
	if err != nil {
		return "", "", err
	}
	return content, history.ExportFilename(conv, format, time.Now()), nil
}

func formatOne(conv *models.Conversation, format history.ExportFormat) (string, error) {
	switch format {
	case history.ExportFormatText:
		return history.FormatConversationText(conv), nil
	case history.ExportFormatHTML:
		return history.FormatConversationHTML(conv), nil
	default:
		return history.FormatConversationJSON(conv)
	}
}

func formatAll(conversations []*models.Conversation, format history.ExportFormat) (string, error) {
	switch format {
	case history.ExportFormatText:
		return history.FormatAllText(conversations), nil
	case history.ExportFormatHTML:
		return history.FormatAllHTML(conversations), nil
	default:
		return history.FormatAllJSON(conversations)
	}
}
