package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/dualchat/internal/history"
	"github.com/diogo/dualchat/internal/models"
)

var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Start a new conversation",
	Long: `Start a new empty conversation and make it active.

Without a title the conversation gets a dated placeholder name, replaced
by your first message later.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		title := ""
		if len(args) > 0 {
			title = args[0]
		}

		conv := store.Create(title)
		fmt.Printf("Started conversation: %s (%s)\n", conv.Title, conv.ID)
		reportPersistWarning(store)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		conversations := store.List()
		if len(conversations) == 0 {
			fmt.Println("No conversations found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, " \tID\tTITLE\tMESSAGES\tUPDATED")
		_, _ = fmt.Fprintln(w, " \t--\t-----\t--------\t-------")

		for _, conv := range conversations {
			marker := " "
			if conv.ID == store.ActiveID() {
				marker = "*"
			}
			updated := conv.UpdatedAt
			if ts, ok := models.ParseTime(conv.UpdatedAt); ok {
				updated = ts.Format("2006-01-02 15:04")
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				marker, conv.ID, truncate(conv.Title, 40), len(conv.Messages), updated)
		}

		return w.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show [ref]",
	Short: "Show a conversation transcript",
	Long: `Show a conversation's messages. Without a reference the active
conversation is shown.

` + history.ListAliases(),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		ref := "@active"
		if len(args) > 0 {
			ref = args[0]
		}

		conv, err := history.NewResolver(store).ResolveWithInfo(ref)
		if err != nil {
			return err
		}

		printConversation(conv)
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select [ref]",
	Short: "Switch the active conversation",
	Long: `Switch which conversation new messages go to. Without a reference an
interactive picker opens.

` + history.ListAliases(),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		if len(args) == 0 {
			return runInteractiveSelect(store)
		}

		id, err := history.NewResolver(store).Resolve(args[0])
		if err != nil {
			return err
		}
		store.Select(id)

		conv, _ := store.Get(id)
		fmt.Printf("Active conversation: %s (%s)\n", conv.Title, conv.ID)
		reportPersistWarning(store)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <ref> <title>",
	Short: "Rename a conversation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		id, err := history.NewResolver(store).Resolve(args[0])
		if err != nil {
			return err
		}
		if err := store.Rename(id, args[1]); err != nil {
			return err
		}

		fmt.Printf("Renamed conversation to: %s\n", args[1])
		reportPersistWarning(store)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <ref>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		resolver := history.NewResolver(store)
		conv, err := resolver.ResolveWithInfo(args[0])
		if err != nil {
			return err
		}

		if err := store.Delete(conv.ID); err != nil {
			return err
		}

		fmt.Printf("Deleted conversation: %s\n", conv.Title)
		if active := store.Active(); active != nil {
			fmt.Printf("Active conversation is now: %s\n", active.Title)
		}
		reportPersistWarning(store)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force && !confirm("Delete ALL conversations? This cannot be undone.") {
			fmt.Println("Aborted.")
			return nil
		}

		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		store.DeleteAll()
		fmt.Println("All conversations deleted.")
		reportPersistWarning(store)
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
}

func runInteractiveSelect(store *history.Store) error {
	result, err := runSelector(store)
	if err != nil {
		return err
	}
	if !result.Confirmed {
		return nil
	}

	if result.IsNew {
		conv := store.Create("")
		fmt.Printf("Started conversation: %s (%s)\n", conv.Title, conv.ID)
	} else {
		store.Select(result.Conversation.ID)
		fmt.Printf("Active conversation: %s (%s)\n", result.Conversation.Title, result.Conversation.ID)
	}
	reportPersistWarning(store)
	return nil
}

func printConversation(conv *models.Conversation) {
	fmt.Printf("ID: %s\n", conv.ID)
	fmt.Printf("Title: %s\n", conv.Title)
	fmt.Printf("Created: %s\n", formatStamp(conv.CreatedAt, "2006-01-02 15:04:05"))
	fmt.Printf("Updated: %s\n", formatStamp(conv.UpdatedAt, "2006-01-02 15:04:05"))
	fmt.Printf("Messages: %d\n", len(conv.Messages))
	fmt.Println()

	for i, msg := range conv.Messages {
		label := msg.Sender.DisplayName()
		if msg.Purpose != models.PurposeDiscussion {
			label += " (" + string(msg.Purpose) + ")"
		}
		fmt.Printf("[%d] %s (%s):\n", i+1, label, formatStamp(msg.Timestamp, "15:04"))

		if msg.Image != nil {
			fmt.Printf("  [image: %s]\n", msg.Image.Name)
		}
		if msg.TextAttachment != nil {
			fmt.Printf("  [attachment: %s]\n", msg.TextAttachment.Name)
		}

		fmt.Printf("  %s\n\n", truncate(msg.Text, 500))
	}
}

// formatStamp formats a stored timestamp, passing it through untouched when
// it does not parse.
func formatStamp(stamp, layout string) string {
	ts, ok := models.ParseTime(stamp)
	if !ok {
		return stamp
	}
	return ts.Format(layout)
}

// truncate shortens a string to at most n characters, appending "..." when
// anything was cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
