// Epson-cfg provisions Epson TM-T88V and TM-T88VI receipt printers.
//
// It reads a merchant's printer settings from the administration service,
// writes them to the printer's web configuration API, verifies what the
// printer stored and restarts it. Individual settings can also be applied,
// inspected and reset directly.
//
// Usage:
//
//	epson-cfg [command] [flags]
//
// See 'epson-cfg --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/itsonme/epson-cfg/internal/config"
	"github.com/itsonme/epson-cfg/internal/logging"
	"github.com/itsonme/epson-cfg/internal/printer"
	"github.com/itsonme/epson-cfg/internal/version"
)

// Global flags
var (
	printerIP  string
	modelName  string
	password   string
	envName    string
	logLevel   string
	configPath string
	loadedCfg  *config.Config
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status. A legacy endpoint
// failure leaves the printer partially configured and gets its own code.
func exitCode(err error) int {
	if printer.IsFatal(err) {
		return 2
	}
	return 1
}

var rootCmd = &cobra.Command{
	Use:   "epson-cfg",
	Short: "Epson receipt printer provisioning utility",
	Long: `Provision Epson TM-T88V and TM-T88VI receipt printers.

Reads a merchant's printer configuration from the administration service,
applies it to the printer's web configuration API, verifies the stored
values and restarts the printer.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(logLevel); err != nil {
			return err
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		loadedCfg = cfg
		return nil
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&printerIP, "printer", "", "Printer IPv4 address (skips discovery)")
	flags.StringVar(&modelName, "model", "", "Printer model: v (TM-T88V) or vi (TM-T88VI)")
	flags.StringVar(&password, "password", "", "Printer web config password (prompted when omitted)")
	flags.StringVar(&envName, "env", "", "Administration service environment (qa, production)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $"+logging.LogLevelEnvVar+")")
	flags.StringVar(&configPath, "config", "", "Configuration file (default: OS config directory)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("epson-cfg %s (commit: %s)\n", version.Version, version.Commit)
	},
}
