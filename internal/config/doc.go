// Package config provides user configuration management for epson-cfg.
//
// The configuration is a YAML file that names the administration service
// environments the tool can provision against and the defaults applied when a
// flag is not given. The file follows OS-specific conventions for storage
// location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/epson-cfg/config.yaml or $HOME/.config/epson-cfg/config.yaml
//   - macOS: $HOME/.config/epson-cfg/config.yaml
//   - Windows: %LOCALAPPDATA%\epson-cfg\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores service tokens or printer passwords.
// Each environment names the environment variable that carries its token.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	env, err := cfg.Environment("qa")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	token, err := env.Token()
//
// # Thread Safety
//
// Save is protected by a mutex and writes through a temporary file followed
// by a rename.
package config
