package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/able2/able2-cli/internal/chat"
	"github.com/able2/able2-cli/internal/notify"
	"github.com/able2/able2-cli/internal/registry"
)

var chatDocIDs []string

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask questions grounded in the uploaded documents",
	Long:  `With a question argument, asks once and prints the answer with its ranked source passages. Without one, starts an interactive session ("exit" to leave, "clear" to discard the transcript). Use --doc to restrict retrieval to specific documents.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notifier := newNotifier()
		client := newAPIClient()
		reg := registry.New(client)
		if err := reg.Refresh(context.Background()); err != nil {
			notifier.Publish(notify.LevelError, err.Error())
		}
		session := chat.New(client, reg, logger)

		if len(args) == 1 {
			return askOnce(session, notifier, args[0])
		}
		return runInteractive(session, notifier, reg.Count())
	},
}

func askOnce(session *chat.Session, notifier *notify.Channel, question string) error {
	turn, err := askWithSpinner(session, question)
	if err != nil {
		notifier.Publish(notify.LevelError, refusalMessage(err))
		return nil
	}
	printTurn(turn)
	return nil
}

func runInteractive(session *chat.Session, notifier *notify.Channel, corpusSize int) error {
	if corpusSize == 0 {
		fmt.Println("No documents uploaded yet. Run `able2 upload` first.")
		return nil
	}
	fmt.Printf("Chatting across %d document(s). Type a question, \"clear\" to reset, \"exit\" to leave.\n", corpusSize)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "clear":
			if confirm("Discard the whole conversation?") {
				session.Clear()
				fmt.Println("Conversation cleared.")
			}
			continue
		}

		turn, err := askWithSpinner(session, line)
		if err != nil {
			notifier.Publish(notify.LevelError, refusalMessage(err))
			continue
		}
		printTurn(turn)
	}
}

// askWithSpinner runs one Ask while animating a spinner. The session's
// in-flight flag guarantees only one request is outstanding.
func askWithSpinner(session *chat.Session, question string) (*chat.Turn, error) {
	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString("thinking")),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
	)

	type result struct {
		turn *chat.Turn
		err  error
	}
	done := make(chan result, 1)
	go func() {
		turn, err := session.Ask(context.Background(), question, chatDocIDs)
		done <- result{turn, err}
	}()

	for {
		select {
		case res := <-done:
			_ = spinner.Clear()
			return res.turn, res.err
		case <-time.After(100 * time.Millisecond):
			_ = spinner.Add(1)
		}
	}
}

func refusalMessage(err error) string {
	switch {
	case errors.Is(err, chat.ErrNoDocuments):
		return "No documents uploaded yet. Upload a PDF before asking questions."
	case errors.Is(err, chat.ErrEmptyQuestion):
		return "Please enter a question."
	case errors.Is(err, chat.ErrBusy):
		return "Still answering the previous question."
	default:
		return err.Error()
	}
}

func printTurn(turn *chat.Turn) {
	if turn.Type == chat.TurnError {
		color.Red("%s", turn.Content)
		return
	}
	fmt.Println(turn.Content)
	if len(turn.Sources) > 0 {
		fmt.Println()
		color.Cyan("Sources:")
		for i, src := range turn.Sources {
			fmt.Printf("  %d. %s %s\n", i+1, scoreBar(src.RelevanceScore), src.DocumentName)
			fmt.Printf("     %s\n", snippet(src.ChunkContent, 160))
		}
	}
}

// scoreBar renders relevance as a five-block bar, tinted by strength.
func scoreBar(score float64) string {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	filled := int(score*5 + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 5-filled)
	label := fmt.Sprintf("%s %.0f%%", bar, score*100)
	switch {
	case score >= 0.75:
		return color.GreenString(label)
	case score >= 0.5:
		return color.YellowString(label)
	default:
		return color.HiBlackString(label)
	}
}

// snippet collapses whitespace and truncates to max runes, never splitting
// a multi-byte sequence.
func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringArrayVar(&chatDocIDs, "doc", nil, "restrict retrieval to a document id (repeatable)")
}
