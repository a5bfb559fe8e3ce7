package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/itsonme/epson-cfg/internal/discovery"
	"github.com/itsonme/epson-cfg/internal/printer"
	"github.com/itsonme/epson-cfg/internal/ui"
)

// Command flags
var (
	scanTimeout  int
	outputFormat string
	assumeYes    bool
	rotate       bool
	newPassword  string

	adminName string
	location  string

	sdpActive   bool
	sdpURL      string
	sdpInterval string
	sdpID       string
	sdpName     string

	statusActive   bool
	statusURL      string
	statusInterval string
	statusID       string
	statusName     string
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(resetCmd)
}

// scanCmd discovers printers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Epson printers on the network",
	Long: `Scan for Epson receipt printers using mDNS/DNS-SD discovery.

Printers advertise their web configuration page over mDNS. This command
lists every Epson printer heard within the timeout with its address and,
when advertised, its model.`,
	Example: `  # Scan for 5 seconds (default)
  epson-cfg scan

  # Longer scan for busy networks
  epson-cfg scan --timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for Epson printers (timeout: %ds)...\n\n", scanTimeout)

	devices, err := discovery.ScanForPrinters(cmd.Context(), time.Duration(scanTimeout)*time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No printers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the printer is powered on and connected to the network")
		fmt.Println("  - Verify your computer is on the same network segment")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --printer to specify the IP address if discovery fails")
		return nil
	}

	fmt.Printf("Found %d printer(s):\n\n", len(devices))
	for i, d := range devices {
		fmt.Printf("%d. %s\n", i+1, d.Name)
		fmt.Printf("   IP:      %s:%d\n", d.IP, d.Port)
		fmt.Printf("   Host:    %s\n", d.Hostname)
		fmt.Println()
	}

	fmt.Println("Use 'epson-cfg show --printer <ip>' to view a printer's configuration")
	return nil
}

// testCmd checks that a printer answers
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to a printer",
	Long: `Send one authenticated request to the printer and report whether it answered.

Any answer counts, including a rejected password: only a printer that never
responds within the retry window fails the test.`,
	Example: `  epson-cfg test --printer 192.168.1.50 --model vi`,
	RunE:    runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	t, err := resolvePrinter(cmd)
	if err != nil {
		return err
	}
	adapter, err := newAdapter(cmd, t)
	if err != nil {
		return err
	}

	fmt.Printf("Testing connection to %s...\n", adapter.Session().Summary())

	if !adapter.TestConnection() {
		err := fmt.Errorf("printer at %s did not respond", t.address)
		connErr := &printer.DeviceError{Type: printer.ErrTypeConnection, DeviceIP: t.address}
		ui.PrintFailure(os.Stdout, "Connection test failed", err, troubleshooting(connErr))
		return err
	}

	ui.PrintSuccess(os.Stdout, "Printer responded", []ui.Detail{
		{Key: "Printer", Value: t.address},
		{Key: "Model", Value: t.model.String()},
	})
	return nil
}

// showCmd displays the current printer configuration
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show printer configuration",
	Long: `Display the settings currently stored on the printer: administrator,
Server Direct Print and Status Notification.`,
	Example: `  # Show config for a specific printer
  epson-cfg show --printer 192.168.1.50 --model vi

  # One-line summary per group
  epson-cfg show --printer 192.168.1.50 --format compact

  # Machine-readable output
  epson-cfg show --printer 192.168.1.50 --format json
  epson-cfg show --printer 192.168.1.50 --format yaml`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json, yaml)")
}

func runShow(cmd *cobra.Command, args []string) error {
	t, err := resolvePrinter(cmd)
	if err != nil {
		return err
	}
	adapter, err := newAdapter(cmd, t)
	if err != nil {
		return err
	}

	snap, err := adapter.Configuration()
	if err != nil {
		ui.PrintFailure(os.Stdout, "Could not read configuration", err, troubleshooting(err))
		return err
	}

	out, err := formatSnapshot(snap, outputFormat)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// formatSnapshot renders snap in one of the show formats
func formatSnapshot(snap *printer.Snapshot, format string) (string, error) {
	switch format {
	case "compact":
		return snap.FormatCompact(), nil
	case "json":
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil
	case "yaml":
		data, err := yaml.Marshal(snap)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	case "detailed", "":
		return snap.FormatDetailed(), nil
	default:
		return "", fmt.Errorf("unknown format %q (use detailed, compact, json or yaml)", format)
	}
}

// applyCmd applies individual settings
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply settings to a printer",
	Long: `Stage the settings given as flags and apply them in one run.

Only the flags you pass are sent. On a TM-T88VI the settings are written in
one request, read back and compared, and the printer is restarted. On a
TM-T88V each section is written through its own endpoint in a fixed order
and the run stops at the first failure; earlier sections stay written.

A new password is sent first on a TM-T88V. On a TM-T88VI it is only sent
with --rotate-password.`,
	Example: `  # Point Server Direct Print at a new URL
  epson-cfg apply --printer 192.168.1.50 --model vi \
    --sdp-active --sdp-url https://print.example/42 --sdp-interval 10

  # Rename the administrator
  epson-cfg apply --printer 192.168.1.51 --model v --admin "Front Desk"`,
	RunE: runApply,
}

func init() {
	f := applyCmd.Flags()
	f.StringVar(&adminName, "admin", "", "Administrator name")
	f.StringVar(&location, "location", "", "Printer location")

	f.BoolVar(&sdpActive, "sdp-active", false, "Enable Server Direct Print (--sdp-active=false disables)")
	f.StringVar(&sdpURL, "sdp-url", "", "Server Direct Print URL")
	f.StringVar(&sdpInterval, "sdp-interval", "", "Server Direct Print polling interval in seconds")
	f.StringVar(&sdpID, "sdp-id", "", "Server Direct Print ID")
	f.StringVar(&sdpName, "sdp-name", "", "Server Direct Print name")

	f.BoolVar(&statusActive, "status-active", false, "Enable Status Notification (--status-active=false disables)")
	f.StringVar(&statusURL, "status-url", "", "Status Notification URL")
	f.StringVar(&statusInterval, "status-interval", "", "Status Notification interval in seconds")
	f.StringVar(&statusID, "status-id", "", "Status Notification ID")
	f.StringVar(&statusName, "status-name", "", "Status Notification name")

	f.StringVar(&newPassword, "new-password", "", "New web config password")
	f.BoolVar(&rotate, "rotate-password", false, "Send the new password to a TM-T88VI")
}

// stagedFromFlags builds the settings named by the apply flags that were set
func stagedFromFlags(changed func(name string) bool) *printer.Settings {
	pick := func(name, value string) *string {
		if changed(name) {
			return printer.String(value)
		}
		return nil
	}
	pickBool := func(name string, value bool) *bool {
		if changed(name) {
			return printer.Bool(value)
		}
		return nil
	}

	s := printer.NewSettings()

	admin := printer.AdministratorGroup{
		Administrator: pick("admin", adminName),
		Location:      pick("location", location),
	}
	if admin.Administrator != nil || admin.Location != nil {
		s.SetAdministrator(admin)
	}

	sdp := printer.EndpointGroup{
		Active:   pickBool("sdp-active", sdpActive),
		URL:      pick("sdp-url", sdpURL),
		Interval: pick("sdp-interval", sdpInterval),
		ID:       pick("sdp-id", sdpID),
		Name:     pick("sdp-name", sdpName),
	}
	if sdp.Active != nil || sdp.URL != nil || sdp.Interval != nil || sdp.ID != nil || sdp.Name != nil {
		s.SetServerDirectPrint(sdp)
	}

	status := printer.EndpointGroup{
		Active:   pickBool("status-active", statusActive),
		URL:      pick("status-url", statusURL),
		Interval: pick("status-interval", statusInterval),
		ID:       pick("status-id", statusID),
		Name:     pick("status-name", statusName),
	}
	if status.Active != nil || status.URL != nil || status.Interval != nil || status.ID != nil || status.Name != nil {
		s.SetStatusNotification(status)
	}

	if changed("new-password") {
		s.SetPassword(newPassword)
	}
	return s
}

func runApply(cmd *cobra.Command, args []string) error {
	settings := stagedFromFlags(cmd.Flags().Changed)
	if !settings.HasChanges() {
		return fmt.Errorf("nothing to apply: pass at least one setting flag (see --help)")
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	t, err := resolvePrinter(cmd)
	if err != nil {
		return err
	}

	var opts []printer.Option
	if rotate {
		opts = append(opts, printer.WithPasswordRotation())
	}
	adapter, err := newAdapter(cmd, t, opts...)
	if err != nil {
		return err
	}
	stage(adapter, settings)

	ui.PrintCommandHeader(os.Stdout, "Apply Settings", cmd.CommandPath(), []ui.Detail{
		{Key: "Printer", Value: t.address},
		{Key: "Model", Value: t.model.String()},
	})
	fmt.Print(printer.FormatSettings(adapter.Staged()))
	fmt.Println()

	result, err := applyWithSpinner(adapter)
	return reportApply(t, result, err)
}

// reportApply prints the outcome of an Apply call
func reportApply(t target, result *printer.ApplyResult, err error) error {
	if err != nil {
		if result != nil && result.Status == printer.StatusMismatch {
			fmt.Println(result.Report.String())
		}
		ui.PrintFailure(os.Stdout, "Apply failed", err, troubleshooting(err))
		return err
	}

	if result.Status == printer.StatusNothingToDo {
		fmt.Println("Nothing to apply.")
		return nil
	}

	details := []ui.Detail{
		{Key: "Printer", Value: t.address},
		{Key: "Result", Value: result.String()},
	}
	ui.PrintSuccess(os.Stdout, "Settings applied", details)

	if result.PasswordSkipped {
		ui.PrintWarning(os.Stdout, "New password was not sent", []ui.Detail{
			{Key: "Reason", Value: "TM-T88VI passwords are only sent with --rotate-password"},
		})
	}
	return nil
}

// resetCmd restarts a printer
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restart a printer",
	Long: `Ask a TM-T88VI to restart and wait for it to come back.

The TM-T88V has no restart endpoint; power-cycle it instead.`,
	Example: `  epson-cfg reset --printer 192.168.1.50 --model vi --yes`,
	RunE:    runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	t, err := resolvePrinter(cmd)
	if err != nil {
		return err
	}
	if t.model == printer.ModelT88V {
		return fmt.Errorf("%s has no restart endpoint: power-cycle the printer", t.model)
	}

	if !assumeYes && !ui.Confirm(os.Stdin, os.Stdout, fmt.Sprintf("Restart the printer at %s?", t.address)) {
		return nil
	}

	adapter, err := newAdapter(cmd, t)
	if err != nil {
		return err
	}

	var ok bool
	err = ui.WaitWithSpinner(os.Stdout, "Restarting printer", func() error {
		ok = adapter.Reset()
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		restartErr := printer.NewRestartError(t.address)
		ui.PrintFailure(os.Stdout, "Restart failed", restartErr, troubleshooting(restartErr))
		return restartErr
	}

	ui.PrintSuccess(os.Stdout, "Printer restarted", []ui.Detail{{Key: "Printer", Value: t.address}})
	return nil
}
