package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	apperrors "github.com/diogo/dualchat/internal/errors"
	"github.com/diogo/dualchat/internal/models"
	"github.com/diogo/dualchat/internal/render"
)

var notepadCmd = &cobra.Command{
	Use:   "notepad",
	Short: "Work with the active conversation's notepads",
	Long: `Each conversation carries a markdown notepad with undo/redo history,
plus any extra notepads you add. Notepad commands operate on the active
notepad of the active conversation.`,
}

var notepadShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the notepad content",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		state, err := store.NotepadState()
		if err != nil {
			return err
		}

		name := state.ID
		if state.Title != "" {
			name = state.Title
		}
		fmt.Printf("Notepad: %s (%d snapshots, cursor %d)\n\n", name, state.Snapshots, state.Cursor)

		if state.Content == "" {
			fmt.Println("(empty)")
			return nil
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Println(state.Content)
			return nil
		}

		width := render.TerminalWidth()
		rendered, err := render.Markdown(state.Content, render.LoadOptionsFromConfigWithWidth(width))
		if err != nil {
			// Fall back to raw output when the renderer chokes
			fmt.Println(state.Content)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

var notepadSetCmd = &cobra.Command{
	Use:   "set [text]",
	Short: "Replace the notepad content",
	Long: `Replace the notepad content, recording an undo snapshot. Reads from
stdin when no text is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) > 0 {
			text = args[0]
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(data)
		}

		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		if err := store.ApplyNotepadEdit(text); err != nil {
			return err
		}

		fmt.Println("Notepad updated.")
		reportPersistWarning(store)
		return nil
	},
}

var notepadUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Step the notepad one edit back",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		text, ok, err := store.NotepadUndo()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Nothing to undo.")
			return nil
		}

		fmt.Printf("Undone. Notepad is now:\n%s\n", text)
		reportPersistWarning(store)
		return nil
	},
}

var notepadRedoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Step the notepad one edit forward",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		text, ok, err := store.NotepadRedo()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Nothing to redo.")
			return nil
		}

		fmt.Printf("Redone. Notepad is now:\n%s\n", text)
		reportPersistWarning(store)
		return nil
	},
}

var notepadClearHistoryCmd = &cobra.Command{
	Use:   "clear-history",
	Short: "Drop the undo/redo history, keeping the content",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		if err := store.NotepadClearHistory(); err != nil {
			return err
		}

		fmt.Println("Notepad history cleared.")
		reportPersistWarning(store)
		return nil
	},
}

var notepadCopyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the notepad content to the clipboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		state, err := store.NotepadState()
		if err != nil {
			return err
		}

		if err := clipboard.WriteAll(state.Content); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}

		fmt.Println("Notepad copied to clipboard.")
		return nil
	},
}

var notepadAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new notepad and switch to it",
	Args:  cobra.MaximumNArgs(1),
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

		id, err := store.AddNotepad(title)
		if err != nil {
			return err
		}

		fmt.Printf("Added notepad %s.\n", id)
		reportPersistWarning(store)
		return nil
	},
}

var notepadUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Switch the active notepad",
	Long: `Switch the active notepad. Use "` + models.DefaultNotepadID + `" for the
conversation's built-in notepad; 'notepad list' shows the rest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		if err := store.SelectNotepad(args[0]); err != nil {
			return err
		}

		fmt.Printf("Active notepad: %s\n", args[0])
		reportPersistWarning(store)
		return nil
	},
}

var notepadListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the conversation's notepads",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		conv := store.Active()
		if conv == nil {
			return apperrors.ErrNoActiveConversation
		}

		active := conv.ActiveNotepad()
		for _, id := range conv.NotepadIDs() {
			marker := " "
			if id == active {
				marker = "*"
			}
			title := ""
			for _, np := range conv.Notepads {
				if np.ID == id {
					title = np.Title
				}
			}
			if title != "" {
				fmt.Printf("%s %s  %s\n", marker, id, title)
			} else {
				fmt.Printf("%s %s\n", marker, id)
			}
		}
		return nil
	},
}

var notepadRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a notepad",
	Long: `Remove a notepad. Removing the built-in "` + models.DefaultNotepadID + `"
notepad resets it to empty instead; a conversation always keeps at least
one notepad.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		if err := store.RemoveNotepad(args[0]); err != nil {
			return err
		}

		fmt.Printf("Removed notepad %s.\n", args[0])
		reportPersistWarning(store)
		return nil
	},
}

func init() {
	notepadShowCmd.Flags().Bool("raw", false, "Print raw markdown without rendering")

	notepadCmd.AddCommand(notepadShowCmd)
	notepadCmd.AddCommand(notepadSetCmd)
	notepadCmd.AddCommand(notepadUndoCmd)
	notepadCmd.AddCommand(notepadRedoCmd)
	notepadCmd.AddCommand(notepadClearHistoryCmd)
	notepadCmd.AddCommand(notepadCopyCmd)
	notepadCmd.AddCommand(notepadAddCmd)
	notepadCmd.AddCommand(notepadUseCmd)
	notepadCmd.AddCommand(notepadListCmd)
	notepadCmd.AddCommand(notepadRemoveCmd)
}
