// Package commands provides CLI commands for dualchat.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/dualchat/internal/tui"
)

var (
	// Global flags
	verboseFlag bool
	dataDirFlag string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dualchat",
	Short: "Manage dual-assistant conversations, notepads and exports",
	Long: `dualchat keeps local conversation history for a two-assistant chat:
messages from you, Cognito and Muse, plus per-conversation notepads with
undo/redo history. Conversations persist across runs and can be exported
to JSON, plain text or HTML, and re-imported later.

Examples:
  dualchat new "Project kickoff"        Start a conversation
  dualchat say "Let's plan the API"     Record a message in the active one
  dualchat list                         List conversations
  dualchat select @last                 Switch the active conversation
  dualchat export -f html -o chat.html  Export the active conversation
  dualchat notepad set "- item one"     Edit the notepad
  dualchat notepad undo                 Step the notepad back`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("dualchat %s (built %s)\n", Version, BuildTime)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		tui.PrintError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Override the state directory (default ~/.dualchat)")
	rootCmd.Flags().Bool("version", false, "Show version and exit")
	rootCmd.SilenceErrors = true

	// Add subcommands
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(notepadCmd)
}
