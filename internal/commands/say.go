package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diogo/dualchat/internal/models"
)

var (
	sayAsFlag      string
	sayPurposeFlag string
	sayFileFlag    string
)

var sayCmd = &cobra.Command{
	Use:   "say [text]",
	Short: "Record a message in the active conversation",
	Long: `Record a message in the active conversation. By default the message
is attributed to you; use --as to record an assistant turn.

Senders: user, cognito, muse
Purposes: discussion, final-answer, system-notification

Examples:
  dualchat say "How do we shard the index?"
  dualchat say --as cognito "Start with a hash ring."
  dualchat say --as muse --purpose final-answer "Use consistent hashing."
  cat reply.md | dualchat say --as muse`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := messageText(args)
		if err != nil {
			return err
		}
		if text == "" {
			return fmt.Errorf("empty message: pass text or pipe it on stdin")
		}

		sender, err := models.ParseSender(sayAsFlag)
		if err != nil {
			return err
		}
		purpose, err := models.ParsePurpose(sayPurposeFlag)
		if err != nil {
			return err
		}

		store, closer, err := openStore()
		if err != nil {
			return err
		}
		defer closer()

		msg := models.StoredMessage{
			Text:    text,
			Sender:  sender,
			Purpose: purpose,
		}
		if sayFileFlag != "" {
			attachment, err := readAttachment(sayFileFlag)
			if err != nil {
				return err
			}
			msg.TextAttachment = attachment
		}

		conv, err := store.AppendMessage(msg)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %s\n", sender.DisplayName(), truncate(text, 80))
		fmt.Printf("Recorded in: %s (%d messages)\n", conv.Title, len(conv.Messages))
		reportPersistWarning(store)
		return nil
	},
}

func init() {
	sayCmd.Flags().StringVar(&sayAsFlag, "as", "user", "Sender: user, cognito or muse")
	sayCmd.Flags().StringVar(&sayPurposeFlag, "purpose", "discussion", "Purpose: discussion, final-answer or system-notification")
	sayCmd.Flags().StringVarP(&sayFileFlag, "file", "f", "", "Attach a text file to the message")
}

// messageText returns the message body from the positional argument or,
// when absent, from piped stdin.
func messageText(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func readAttachment(path string) (*models.TextAttachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	return &models.TextAttachment{
		Name:    filepath.Base(path),
		Content: string(data),
	}, nil
}
