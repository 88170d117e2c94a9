package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/ask-my-resume/internal/ai"
	"github.com/spigell/ask-my-resume/internal/resume"
	"github.com/spigell/ask-my-resume/internal/utils"
)

type chatGenerator interface {
	Chat(ctx context.Context, system string, history []*genai.Content, message string) (string, error)
}

// Assistant answers questions about a single résumé using Gemini.
type Assistant struct {
	generator chatGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	// kickoffMessage starts the conversation when there is no user prompt yet.
	kickoffMessage = "Introduce yourself and offer three questions to start with."
)

var _ ai.Assistant = (*Assistant)(nil)

func NewAssistant(generator chatGenerator, maxLogLength int, logger *zap.Logger) *Assistant {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Assistant{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Reply sends the conversation to Gemini and validates the JSON answer.
func (a *Assistant) Reply(ctx context.Context, history []ai.Message) (*ai.Reply, error) {
	system, contents, message := splitHistory(history)

	a.logger.Debug("gemini chat request",
		zap.Int("history_length", len(contents)),
		zap.Int("system_length", utf8.RuneCountInString(system)),
		zap.String("message_preview", utils.TruncateForLog(message, a.maxLogLen)),
	)

	raw, err := a.generator.Chat(ctx, system, contents, message)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrAPI, err)
	}

	a.logger.Debug("gemini chat response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	reply, err := ai.ParseReply(raw)
	if err != nil {
		a.logger.Warn("gemini returned malformed reply",
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
		)
		return nil, err
	}

	return reply, nil
}

// splitHistory turns a role/content conversation into the pieces the chat API
// wants: a system instruction, prior turns, and the message to send now.
func splitHistory(history []ai.Message) (string, []*genai.Content, string) {
	system := strings.Join(ai.Text(history, ai.RoleSystem), "\n\n")

	turns := make([]ai.Message, 0, len(history))
	for _, m := range history {
		if m.Role != ai.RoleSystem {
			turns = append(turns, m)
		}
	}

	message := kickoffMessage
	if n := len(turns); n > 0 && turns[n-1].Role == ai.RoleUser {
		message = turns[n-1].Content
		turns = turns[:n-1]
	}

	contents := make([]*genai.Content, 0, len(turns))
	for _, m := range turns {
		var role genai.Role = genai.RoleUser
		if m.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	return system, contents, message
}

// SystemPrompt fills the embedded prompt template with the résumé.
func SystemPrompt(r *resume.Resume) (string, error) {
	if r == nil {
		return "", errors.New("resume is required")
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "You are {{NAME}}'s Resume Assistant. Contact: {{EMAIL}}.\n\n{{RESUME}}\n\nRespond in JSON with \"message\" and \"suggestions\"."
	}

	prompt := strings.ReplaceAll(template, "{{NAME}}", r.Intro.Name)
	prompt = strings.ReplaceAll(prompt, "{{EMAIL}}", r.Intro.Email)
	prompt = strings.ReplaceAll(prompt, "{{RESUME}}", r.Context())
	return prompt, nil
}
