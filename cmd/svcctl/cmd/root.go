package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	svcctl "github.com/axondata/go-svcctl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:     "svcctl",
	Short:   "Tool for host service control",
	Long:    `svcctl renders supervisor unit definitions from declarative service descriptors and drives systemd: install, uninstall, start, stop, or run a (service, config) pair.`,
	Version: svcctl.Version,

	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it. Errors
// are returned to main, which owns diagnostics and exit codes.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default /etc/svcctl/config.yaml or $HOME/.svcctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("install-root", "", "install root (default: the executable's directory)")
	rootCmd.PersistentFlags().String("services-dir", "", "service descriptor directory (default <install-root>/services)")
	rootCmd.PersistentFlags().String("template-dir", "", "unit template override directory")
	rootCmd.PersistentFlags().String("unit-dir", "", "supervisor unit directory (default "+svcctl.DefaultUnitDir+")")
	rootCmd.PersistentFlags().String("interpreter", "", "interpreter path for managed services")

	_ = viper.BindPFlag("install_root", rootCmd.PersistentFlags().Lookup("install-root"))
	_ = viper.BindPFlag("services_dir", rootCmd.PersistentFlags().Lookup("services-dir"))
	_ = viper.BindPFlag("template_dir", rootCmd.PersistentFlags().Lookup("template-dir"))
	_ = viper.BindPFlag("unit_dir", rootCmd.PersistentFlags().Lookup("unit-dir"))
	_ = viper.BindPFlag("interpreter", rootCmd.PersistentFlags().Lookup("interpreter"))
}

// initConfig reads in the config file and SVCCTL_* environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("/etc/svcctl")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".svcctl"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SVCCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

// buildConfig assembles the per-invocation Config from defaults, the
// config file, environment, and flags.
func buildConfig() *svcctl.Config {
	cfg := svcctl.DefaultConfig()

	if v := viper.GetString("install_root"); v != "" {
		cfg.InstallRoot = v
		cfg.ServicesDir = filepath.Join(v, "services")
		cfg.StaticAssetsDir = filepath.Join(v, "project_static")
	}
	if v := viper.GetString("services_dir"); v != "" {
		cfg.ServicesDir = v
	}
	if v := viper.GetString("template_dir"); v != "" {
		cfg.TemplateDir = v
	}
	if v := viper.GetString("unit_dir"); v != "" {
		cfg.UnitDir = v
	}
	if v := viper.GetString("logging_dir"); v != "" {
		cfg.LoggingDir = v
	}
	if v := viper.GetString("interpreter"); v != "" {
		cfg.InterpreterPath = v
	}
	if viper.IsSet("settle_delay") {
		cfg.SettleDelay = viper.GetDuration("settle_delay")
	}
	if viper.IsSet("use_sudo") {
		cfg.UseSudo = viper.GetBool("use_sudo")
	}

	return cfg
}

// newLogger builds the debug logger wired into the library types
func newLogger() *zap.SugaredLogger {
	if !verbose {
		return zap.NewNop().Sugar()
	}
	logger, err := zap.NewDevelopmentConfig().Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

func newController() *svcctl.Controller {
	ctrl := svcctl.NewController(buildConfig())
	ctrl.Logger = newLogger()
	return ctrl
}

func newRunner() *svcctl.Runner {
	runner := svcctl.NewRunner(buildConfig())
	runner.Logger = newLogger()
	return runner
}
