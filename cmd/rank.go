package cmd

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ask-my-resume/internal/chat"
	"github.com/spigell/ask-my-resume/internal/render"
	"github.com/spigell/ask-my-resume/internal/resume"
)

var rankCmd = &cobra.Command{
	Use:   "rank [question]",
	Short: "Show which projects and experience match a question, without calling the model",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rank(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().IntP("top", "n", 0, "how many entries of each kind to show (default chat.panel-size)")
	viper.BindPFlag("chat.panel-size", rankCmd.Flags().Lookup("top"))
}

func rank(cmd *cobra.Command, question string) {
	logger, err := newLogger(false)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config := loadConfig(logger)

	r, err := resume.Load(config.ResumeFile)
	if err != nil {
		logger.Fatal("loading the resume", zap.Error(err))
	}

	view := chat.Preview(r, question, config.Chat)

	if viper.GetBool("json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"keyphrases": view.Keyphrases,
			"projects":   view.Projects,
			"experience": view.Experience,
		}); err != nil {
			logger.Fatal("encoding the ranking", zap.Error(err))
		}
		return
	}

	render.NewTerminal(os.Stdout, !color.NoColor).Panel(view)
}
