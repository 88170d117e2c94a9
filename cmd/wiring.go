package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ask-my-resume/internal/ai"
	"github.com/spigell/ask-my-resume/internal/ai/gemini"
	"github.com/spigell/ask-my-resume/internal/chat"
	"github.com/spigell/ask-my-resume/internal/logger"
	"github.com/spigell/ask-my-resume/internal/resume"
	"github.com/spigell/ask-my-resume/internal/secrets"
)

func newLogger(quiet bool) (*zap.Logger, error) {
	return logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
		File:  viper.GetString("log-file"),
		Quiet: quiet,
	})
}

// loadConfig reads the config and logs it at debug level.
func loadConfig(log *zap.Logger) *Config {
	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return config
}

// newChatDeps loads the résumé and builds the assistant every session shares.
func newChatDeps(ctx context.Context, config *Config, log *zap.Logger) (chat.Deps, error) {
	// Load errors already match chat.ErrContextMissing.
	r, err := resume.Load(config.ResumeFile)
	if err != nil {
		return chat.Deps{}, err
	}

	log.Info("resume loaded",
		zap.String("name", r.Intro.Name),
		zap.Int("experience", len(r.Experience)),
		zap.Int("projects", len(r.Projects)),
		zap.Int("education", len(r.Education)),
	)

	system, err := gemini.SystemPrompt(r)
	if err != nil {
		return chat.Deps{}, fmt.Errorf("%w: %w", chat.ErrContextMissing, err)
	}

	assistant, err := newAssistant(ctx, config.AI, log)
	if err != nil {
		return chat.Deps{}, fmt.Errorf("building assistant: %w", err)
	}

	return chat.Deps{
		Assistant:    assistant,
		Resume:       r,
		SystemPrompt: system,
		Config:       config.Chat.WithDefaults(),
	}, nil
}

func newAssistant(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Assistant, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
		Hint: "set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		logger.WithFields(log, zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)))
	if err != nil {
		return nil, err
	}

	aiLogger := logger.WithCommonFields(log, "gemini", generator.Model())
	aiLogger.Info("assistant ready")

	return gemini.NewAssistant(generator, cfg.Gemini.MaxLogLength, aiLogger), nil
}
