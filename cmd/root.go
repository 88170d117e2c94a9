package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/ask-my-resume/internal/chat"
	"github.com/spigell/ask-my-resume/internal/server"
	"github.com/spigell/ask-my-resume/internal/session"
)

const (
	app = "ask-my-resume"
)

type Config struct {
	ResumeFile string       `mapstructure:"resume-file"`
	LogFile    string       `mapstructure:"log-file"`
	Chat       chat.Config  `mapstructure:"chat"`
	AI         *AIConfig    `mapstructure:"ai"`
	Serve      *ServeConfig `mapstructure:"serve"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ServeConfig struct {
	HTTP     server.Config  `mapstructure:",squash"`
	Sessions session.Config `mapstructure:",squash"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ask-my-resume is a chatbot that answers questions about a résumé and shows the most relevant entries",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envBindings := map[string]string{
		"resume-file":            "ASK_MY_RESUME_RESUME_FILE",
		"log-file":               "ASK_MY_RESUME_LOG_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("chat.max-turns", chat.DefaultMaxTurns)
	viper.SetDefault("chat.max-prompt-length", chat.DefaultMaxPromptLength)
	viper.SetDefault("chat.panel-size", chat.DefaultPanelSize)
	viper.SetDefault("chat.timeout", chat.DefaultTimeout)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.max-retries", 1)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("serve.address", server.DefaultAddress)
	viper.SetDefault("serve.session-ttl", session.DefaultTTL)
	viper.SetDefault("serve.cleanup-interval", session.DefaultCleanupInterval)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ask-my-resume.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("resume", "r", "", "a resume file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-file", "", "also write json logs to this file, rotated")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("resume-file", rootCmd.PersistentFlags().Lookup("resume"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The default config file is optional: everything can come from flags and env.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Serve == nil {
		config.Serve = &ServeConfig{}
	}

	return config, nil
}
