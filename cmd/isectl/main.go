package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ise-client/cmd/isectl/commands"
	"github.com/fivetwenty-io/ise-client/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "isectl",
	Short: "Cisco ISE guest and endpoint CLI",
	Long: `A command-line interface for Cisco Identity Services Engine.

It lists and maintains sponsor created guest accounts over the ERS API and
lists endpoints over the admin UI API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.isectl/config.yml)")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatPlain, "output format (plain, csv, json, yaml)")
	rootCmd.PersistentFlags().StringP("query", "q", "", "JMESPath expression applied to the result list")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("skip-ssl-validation", false, "skip SSL certificate validation")
	rootCmd.PersistentFlags().Duration("connect-timeout", constants.DefaultConnectTimeout, "connect and TLS handshake timeout")
	rootCmd.PersistentFlags().Duration("read-timeout", constants.DefaultReadTimeout, "response header timeout")

	// Bind flags to viper
	for _, name := range []string{
		"config", commands.KeyOutput, commands.KeyQuery, commands.KeyVerbose,
		commands.KeySkipSSL, commands.KeyConnectTimeout, commands.KeyReadTimeout,
	} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	viper.SetDefault(commands.KeySSLVerify, true)
	viper.SetDefault(commands.KeyUILoginType, "Internal")

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewSponsorListCommand())
	rootCmd.AddCommand(commands.NewUIListCommand())
	rootCmd.AddCommand(commands.NewDeleteSponsorAccountsCommand())
	rootCmd.AddCommand(commands.NewSponsorEndpointsCommand())
	rootCmd.AddCommand(commands.NewGuestUserCommand())
}

func initConfig() {
	// A .env file in the working directory supplies ISE_* variables; the real environment wins.
	_ = godotenv.Load()

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".isectl")
		if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("ISE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	initLogging(viper.GetBool(commands.KeyVerbose))

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

func initLogging(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
