package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudberry-contrib/imagecheck/internal/config"
	"github.com/cloudberry-contrib/imagecheck/internal/hostinspect"
	"github.com/cloudberry-contrib/imagecheck/internal/logging"
)

var (
	cfgFile      string
	outputFormat string
	logLevel     string
	logJSON      bool
	manifestPath string
	rootDir      string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "imagecheck",
	Short: "Post-build verification for container images",
	Long: `imagecheck runs a battery of independent checks against a built
container image (from inside the container, or against a rootfs mounted
at a directory) and reports pass/fail per check. The exit code is
non-zero when any check fails.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Setup(logLevel, logJSON)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.imagecheck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "expectation manifest file (default: built-in Ubuntu 22.04 manifest)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "inspect an image rootfs mounted at this directory instead of the local system")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".imagecheck"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("imagecheck")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if manifestPath == "" && viper.GetString("manifest") != "" {
			manifestPath = viper.GetString("manifest")
		}
		if rootDir == "" && viper.GetString("root") != "" {
			rootDir = viper.GetString("root")
		}
	}
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}

// buildHost selects the inspection backend from the --root flag.
func buildHost() (hostinspect.Host, error) {
	if rootDir != "" {
		return hostinspect.NewRootfsHost(rootDir)
	}
	return hostinspect.NewLocalHost(), nil
}

// loadManifest loads the expectation manifest, falling back to the
// built-in defaults when no file is configured.
func loadManifest() (*config.Manifest, error) {
	if manifestPath == "" {
		return config.Default(), nil
	}
	m, err := config.Load(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", manifestPath, err)
	}
	return m, nil
}
