package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NethermindEth/accountcheck/node"
	"github.com/NethermindEth/accountcheck/utils"
	"github.com/NethermindEth/accountcheck/validator"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version string

const (
	configF      = "config"
	envFileF     = "env-file"
	logLevelF    = "log-level"
	colourF      = "colour"
	networkF     = "network"
	nodeURLF     = "node-url"
	maxAttemptsF = "max-attempts"
	silentF      = "silent"
	cacheDirF    = "cache-dir"

	defaultConfig      = ""
	defaultEnvFile     = ""
	defaultColour      = true
	defaultNodeURL     = ""
	defaultMaxAttempts = utils.DefaultMaxAttempts
	defaultSilent      = false
	defaultCacheDir    = ""

	envPrefix = "ACCOUNTCHECK"

	configFlagUsage   = "The YAML configuration file."
	envFileUsage      = "A dotenv file of ACCOUNTCHECK_* variables. They override the config file, not the environment."
	logLevelFlagUsage = "Options: debug, info, warn, error."
	colourUsage       = "Use `--colour=false` command to disable colourized outputs (ANSI Escape Codes)."
	nodeURLUsage      = "Starknet JSON-RPC endpoint. Overrides the default URL of the network."
	silentUsage       = "Suppress all logging of the classifier."
	cacheDirUsage     = "Directory to keep class verdicts in between runs. Verdicts are kept in memory if empty."

	networkUsage = "Options: mainnet-alpha, sepolia-alpha, custom. " +
		"The network selects the default node URL; custom requires --node-url."
	maxAttemptsUsage = "Number of attempts for every node request. " +
		"The wait between attempts grows linearly from one second."
)

// ErrUnsuccessful is returned by the check and validate commands when at least
// one address is invalid or could not be classified.
var ErrUnsuccessful = errors.New("some addresses failed the check")

// Server is the long running HTTP service started by the serve command.
type Server interface {
	Run(ctx context.Context) error
	Config() node.Config
}

type NewServerFn func(cfg *node.Config, log utils.SimpleLogger) (Server, error)

func NewCmd(newServer NewServerFn) *cobra.Command {
	var cfgFile, envFile string

	rootCmd := &cobra.Command{
		Use:           "accountcheck [command]",
		Short:         "Tells Starknet smart wallets, regular contracts and undeployed addresses apart.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultLogLevel := utils.NewLogLevel(utils.WARN)
	defaultNetwork := utils.MainnetAlpha

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, configF, defaultConfig, configFlagUsage)
	flags.StringVar(&envFile, envFileF, defaultEnvFile, envFileUsage)
	flags.Var(defaultLogLevel, logLevelF, logLevelFlagUsage)
	flags.Bool(colourF, defaultColour, colourUsage)
	flags.Var(&defaultNetwork, networkF, networkUsage)
	flags.String(nodeURLF, defaultNodeURL, nodeURLUsage)
	flags.Int(maxAttemptsF, defaultMaxAttempts, maxAttemptsUsage)
	flags.Bool(silentF, defaultSilent, silentUsage)
	flags.String(cacheDirF, defaultCacheDir, cacheDirUsage)

	load := func(cmd *cobra.Command) (*node.Config, utils.SimpleLogger, error) {
		cfg, err := loadConfig(cmd, cfgFile, envFile)
		if err != nil {
			return nil, nil, err
		}
		log, err := utils.NewZapLogger(&cfg.LogLevel, cfg.Colour)
		if err != nil {
			return nil, nil, fmt.Errorf("create logger: %w", err)
		}
		return cfg, log, nil
	}

	rootCmd.AddCommand(
		newCheckCmd(load),
		newValidateCmd(),
		newServeCmd(load, newServer),
		newRegistryCmd(load),
	)
	return rootCmd
}

// readEnvFile returns the ACCOUNTCHECK_* entries of a dotenv file keyed by
// their flag names. The process environment is left untouched.
func readEnvFile(path string) (map[string]any, error) {
	entries, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	vars := make(map[string]any, len(entries))
	for key, value := range entries {
		name, ok := strings.CutPrefix(key, envPrefix+"_")
		if !ok {
			continue
		}
		vars[strings.ReplaceAll(strings.ToLower(name), "_", "-")] = value
	}
	return vars, nil
}

type loadFn func(cmd *cobra.Command) (*node.Config, utils.SimpleLogger, error)

// loadConfig merges, in increasing order of precedence, the config file, the
// env file, ACCOUNTCHECK_* environment variables and command line flags.
func loadConfig(cmd *cobra.Command, cfgFile, envFile string) (*node.Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	if envFile != "" {
		vars, err := readEnvFile(envFile)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(vars); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	cfg := new(node.Config)
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, err
	}

	if err := validator.Validator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
