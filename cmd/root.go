package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/abikit/internal/config"
	"github.com/zjrosen/abikit/internal/paths"
	"github.com/zjrosen/abikit/internal/presentation"
)

var (
	version      = "dev"
	cfgFile      string
	debugFlag    bool
	outputFormat string
	cfg          config.Config
)

var rootCmd = &cobra.Command{
	Use:   "abikit",
	Short: "Versioned SDK registry and blob cache",
	Long: `abikit manages the SDK versions bundled into a host process: it selects a
version for an application manifest, namespaces symbols and java packages per
version, lists the native modules each version provides and serves the keyed
blob cache used for transient images.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return setupRuntime() },
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .abikit/config.yaml, then ~/.config/abikit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable debug logging (also ABIKIT_DEBUG=1)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", presentation.FormatJSON,
		"output format: json or yaml")
}

func initConfig() {
	viper.Reset()
	viper.SetEnvPrefix("ABIKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	defaults := config.Defaults()
	viper.SetDefault("versions_file", defaults.VersionsFile)
	viper.SetDefault("default_version", defaults.DefaultVersion)
	viper.SetDefault("debug", defaults.Debug)
	viper.SetDefault("log_file", defaults.LogFile)
	viper.SetDefault("blob.key_strategy", defaults.Blob.KeyStrategy)
	viper.SetDefault("blob.ttl", defaults.Blob.TTL)
	viper.SetDefault("blob.cleanup_interval", defaults.Blob.CleanupInterval)
	viper.SetDefault("blob.persist", defaults.Blob.Persist)
	viper.SetDefault("blob.persist_ttl", defaults.Blob.PersistTTL)
	viper.SetDefault("blob.db_path", defaults.Blob.DBPath)
	viper.SetDefault("server.addr", defaults.Server.Addr)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	// Config lookup order:
	// 1. --config
	// 2. .abikit/config.yaml (current directory)
	// 3. ~/.config/abikit/config.yaml (user config)
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if local := paths.ProjectConfig("."); fileExists(local) {
		viper.SetConfigFile(local)
	} else {
		viper.AddConfigPath(paths.ConfigDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "abikit: reading config: %v\n", err)
		}
	}

	cfg = config.Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "abikit: decoding config: %v\n", err)
	}
}

// configFilePath is the file config-writing commands update.
func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return paths.InConfigDir("config.yaml")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Execute runs the root command.
func Execute() error {
	defer shutdownRuntime()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
