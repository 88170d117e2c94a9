package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ask-my-resume/internal/chat"
	"github.com/spigell/ask-my-resume/internal/render"
)

const (
	PromptAsk        = "Ask my own question"
	PromptStartOver  = "Edit resume (start over)"
	PromptTranscript = "Dump transcript to file"
	PromptQuit       = "Quit"
)

var errExit = errors.New("exit requested")

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat about the resume in the terminal",
	// runChat reports failures on the terminal itself.
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runChat()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat() error {
	ctx := context.Background()

	// Console logs would break the interactive prompt, so they only go to log-file.
	logger, err := newLogger(true)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	term := render.NewTerminal(os.Stdout, !color.NoColor)
	config := loadConfig(logger)

	logger.Info("starting the ask-my-resume chat", zap.String("version", version))

	deps, err := newChatDeps(ctx, config, logger)
	if err != nil {
		logger.Error("preparing the chat", zap.Error(err))
		term.Error("Something went wrong. Please reload the page")
		term.Error("%s", err)
		return err
	}

	sess := chat.NewSession(uuid.NewString(), deps, logger)

	return converse(ctx, sess, term, logger, func(view chat.View) (string, chat.Event, error) {
		return choose(view, deps.Config.MaxPromptLength)
	})
}

// chooser returns the next menu action and the event it maps to.
// A nil event means the action is handled outside the session.
type chooser func(view chat.View) (string, chat.Event, error)

// converse greets, then feeds chosen events to the session until the user quits.
// Only a failed greeting is returned as an error.
func converse(ctx context.Context, sess *chat.Session, term *render.Terminal, logger *zap.Logger, next chooser) error {
	view, err := sess.Handle(ctx, chat.Start{})
	term.Header(view)
	term.Messages(view, 0)
	if err != nil {
		term.Status(view)
		return err
	}

	shown := len(view.Messages)
	for {
		term.Panel(view)
		term.Status(view)

		action, event, err := next(view)
		if err != nil {
			logger.Info("exiting", zap.Error(err))
			break
		}

		if action == PromptTranscript {
			filename, err := sess.DumpToTmpFile()
			if err != nil {
				term.Error("dump transcript to file: %s", err)
				continue
			}
			term.Info("transcript saved to %s\n", filename)
			continue
		}

		if _, ok := event.(chat.Reset); ok {
			shown = 0
		}

		term.Info("Processing...")
		updated, err := sess.Handle(ctx, event)
		view = updated
		if err != nil && !errors.Is(err, chat.ErrTurnLimitExceeded) && view.Notice == "" {
			term.Error("%s", err)
		}

		term.Messages(view, shown)
		shown = len(view.Messages)
	}

	if _, err := sess.Handle(ctx, chat.End{}); err != nil {
		logger.Warn("ending the chat", zap.Error(err))
	}
	return nil
}

// choose asks the user for the next action and turns it into an event.
func choose(view chat.View, maxPromptLength int) (string, chat.Event, error) {
	items := make([]string, 0, len(view.Suggestions)+4)
	if view.InputEnabled {
		items = append(items, view.Suggestions...)
		items = append(items, PromptAsk)
	}
	items = append(items, PromptStartOver, PromptTranscript, PromptQuit)

	selectPrompt := promptui.Select{
		Label: "What next?",
		Items: items,
		Size:  len(items),
	}

	index, action, err := selectPrompt.Run()
	if err != nil {
		return "", nil, err
	}

	if view.InputEnabled && index < len(view.Suggestions) {
		return action, chat.Suggestion{Index: index}, nil
	}

	switch action {
	case PromptAsk:
		text, err := askPrompt(view.Placeholder, maxPromptLength)
		if err != nil {
			return "", nil, err
		}
		return action, chat.Prompt{Text: text}, nil
	case PromptStartOver:
		return action, chat.Reset{}, nil
	case PromptTranscript:
		return action, nil, nil
	case PromptQuit:
		return action, nil, errExit
	default:
		return "", nil, fmt.Errorf("invalid action: %s", action)
	}
}

func askPrompt(label string, maxLength int) (string, error) {
	if label == "" {
		label = "Your question"
	}

	input := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return chat.ErrEmptyPrompt
			}
			if n := utf8.RuneCountInString(s); n > maxLength {
				return fmt.Errorf("%w: %d/%d characters", chat.ErrPromptTooLong, n, maxLength)
			}
			return nil
		},
	}

	return input.Run()
}
