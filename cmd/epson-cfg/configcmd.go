package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/itsonme/epson-cfg/internal/config"
	"github.com/itsonme/epson-cfg/internal/logging"
)

var forceInit bool

// configCmd groups the configuration file commands. It does not load the
// file up front so that init can replace a broken one.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the epson-cfg configuration file",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Write a configuration file with the QA and production environments.

Tokens are never written to the file. Each environment names the variable
that carries its token, e.g. EPSONCFG_QA_TOKEN.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func configFilePath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Printf("# %s\n", path)
	fmt.Print(string(data))
	fmt.Println()

	fmt.Println("Tokens:")
	for _, name := range cfg.EnvironmentNames() {
		env := cfg.Environments[name]
		state := "set"
		if _, err := env.Token(); err != nil {
			state = "not set"
		}
		fmt.Printf("  %-12s $%s (%s)\n", name, env.TokenEnv, state)
	}
	return nil
}
