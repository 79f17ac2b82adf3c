package main

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-go-golems/parlance/cmd/parlance/cmds"
)

var rootCmd = &cobra.Command{
	Use:   "parlance",
	Short: "parlance manages node-based chat conversations against the OpenAI API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// reinitialize the logger once --log-level has been parsed
		initLogger()
	},
}

func initLogger() {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// human-readable output on a terminal, json otherwise
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = log.Output(os.Stderr)
	}
}

func initViper() error {
	viper.SetEnvPrefix("parlance")

	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.parlance")
	xdgConfigPath, err := os.UserConfigDir()
	if err == nil {
		viper.AddConfigPath(xdgConfigPath + "/parlance")
	}
	viper.SetConfigName("config")

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// no config file; environment and flags still apply
	} else if err != nil {
		return err
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	return viper.BindPFlags(rootCmd.PersistentFlags())
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("openai-api-key", "", "OpenAI API key (defaults to OPENAI_API_KEY)")

	err := initViper()
	cobra.CheckErr(err)
	initLogger()

	rootCmd.AddCommand(cmds.NewChatCommand())
	rootCmd.AddCommand(cmds.NewUsageCommand())
	rootCmd.AddCommand(cmds.NewTokensCommand())

	err = rootCmd.Execute()
	cobra.CheckErr(err)
}
