package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/itsonme/epson-cfg/internal/admin"
	"github.com/itsonme/epson-cfg/internal/discovery"
	"github.com/itsonme/epson-cfg/internal/printer"
	"github.com/itsonme/epson-cfg/internal/ui"
)

// discoveryTimeout bounds the scan used when --printer is not given
const discoveryTimeout = 5 * time.Second

// target is the printer a command works on
type target struct {
	address string
	model   printer.Model
}

// resolvePrinter returns the printer named by --printer, or the single
// printer found by discovery
func resolvePrinter(cmd *cobra.Command) (target, error) {
	if printerIP != "" {
		if err := printer.ValidateAddress(printerIP); err != nil {
			return target{}, err
		}
		model, err := resolveModel()
		if err != nil {
			return target{}, err
		}
		return target{address: printerIP, model: model}, nil
	}

	fmt.Println("No printer address specified, attempting auto-discovery...")
	devices, err := discovery.ScanForPrinters(cmd.Context(), discoveryTimeout)
	if err != nil {
		return target{}, fmt.Errorf("discovery failed: %w", err)
	}

	if len(devices) == 0 {
		return target{}, fmt.Errorf("no printers found. Use --printer to specify the IP address")
	}

	if len(devices) > 1 {
		fmt.Printf("Found %d printers:\n", len(devices))
		for i, d := range devices {
			fmt.Printf("%d. %s\n", i+1, d)
		}
		return target{}, fmt.Errorf("multiple printers found. Use --printer to specify which one")
	}

	device := devices[0]
	fmt.Printf("Found printer: %s\n\n", device)
	model, err := resolveModel()
	if err != nil {
		return target{}, err
	}
	return target{address: device.IP, model: model}, nil
}

// resolveModel picks the model from --model, then the configured default.
// The model is never guessed from the network.
func resolveModel() (printer.Model, error) {
	if modelName != "" {
		return printer.ParseModel(modelName)
	}
	if loadedCfg != nil {
		model, err := loadedCfg.Model()
		if err != nil {
			return 0, err
		}
		if model != 0 {
			return model, nil
		}
	}
	return 0, printer.NewInvalidArgumentError("printer model unknown: pass --model v or --model vi")
}

// printerPassword returns --password, or prompts for it on a terminal. An
// empty answer selects the factory default.
func printerPassword(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("password") {
		return password, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", nil
	}
	return ui.ReadPassword(os.Stderr, "Printer password (Enter for factory default): ")
}

// newAdapter builds the adapter for t with the configured timing defaults
func newAdapter(cmd *cobra.Command, t target, extra ...printer.Option) (printer.Adapter, error) {
	pw, err := printerPassword(cmd)
	if err != nil {
		return nil, err
	}
	return buildAdapter(t, pw, extra...)
}

// buildAdapter is newAdapter with the password already chosen
func buildAdapter(t target, pw string, extra ...printer.Option) (printer.Adapter, error) {
	var opts []printer.Option
	if d := loadedCfg.Defaults; d != nil {
		if d.RetryWindow > 0 {
			opts = append(opts, printer.WithRetryWindow(d.RetryWindow))
		}
		if d.SettleDelay > 0 {
			opts = append(opts, printer.WithSettleDelay(d.SettleDelay))
		}
		if d.RequestTimeout > 0 {
			opts = append(opts, printer.WithRequestTimeout(d.RequestTimeout))
		}
	}
	opts = append(opts, extra...)

	return printer.New(t.model, t.address, pw, opts...)
}

// adminClient returns a client for the selected environment
func adminClient() (*admin.Client, string, error) {
	env, err := loadedCfg.Environment(envName)
	if err != nil {
		return nil, "", err
	}
	token, err := env.Token()
	if err != nil {
		return nil, "", err
	}
	return admin.NewClient(env.AdminURL, token), env.AdminURL, nil
}

// stage copies the staged groups of s into a
func stage(a printer.Adapter, s *printer.Settings) {
	if s.Administrator != nil {
		a.SetAdministrator(*s.Administrator)
	}
	if s.ServerDirectPrint != nil {
		a.SetServerDirectPrint(*s.ServerDirectPrint)
	}
	if s.StatusNotification != nil {
		a.SetStatusNotification(*s.StatusNotification)
	}
	if s.NewPassword != nil {
		a.SetPassword(*s.NewPassword)
	}
}

// countGroups returns how many setting groups s stages
func countGroups(s *printer.Settings) int {
	n := 0
	if s.Administrator != nil {
		n++
	}
	if s.ServerDirectPrint != nil {
		n++
	}
	if s.StatusNotification != nil {
		n++
	}
	return n
}

// applyWithSpinner runs Apply while a spinner shows that the printer may be
// restarting
func applyWithSpinner(a printer.Adapter) (*printer.ApplyResult, error) {
	var result *printer.ApplyResult
	err := ui.WaitWithSpinner(os.Stdout, "Applying settings (the printer may restart)", func() error {
		var err error
		result, err = a.Apply()
		return err
	})
	return result, err
}

// troubleshooting returns the tips for err
func troubleshooting(err error) []string {
	if hint := printer.GetTroubleshootingHint(err); hint != "" {
		return ui.TipsFromHint(hint)
	}
	if admin.IsRefused(err) {
		return []string{
			"The administration service refused this merchant",
			"Check the merchant id and that the merchant is set up for a printer",
		}
	}
	return nil
}

// hintFor adapts troubleshooting to ui.RunnerConfig.Hints
func hintFor(err error) string {
	if hint := printer.GetTroubleshootingHint(err); hint != "" {
		return hint
	}
	tips := troubleshooting(err)
	if len(tips) == 0 {
		return ""
	}
	hint := "Troubleshooting:"
	for _, t := range tips {
		hint += "\n  • " + t
	}
	return hint
}
