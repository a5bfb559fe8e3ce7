package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/itsonme/epson-cfg/internal/admin"
	"github.com/itsonme/epson-cfg/internal/printer"
	"github.com/itsonme/epson-cfg/internal/ui"
)

var (
	merchantFormat string
	sendTest       bool
)

func init() {
	rootCmd.AddCommand(merchantCmd)
	rootCmd.AddCommand(provisionCmd)
}

// merchantCmd shows what provisioning a merchant would write
var merchantCmd = &cobra.Command{
	Use:   "merchant <merchant-id>",
	Short: "Show a merchant's printer configuration",
	Long: `Validate a merchant with the administration service and show the printer
settings it holds for them. Nothing is sent to a printer.

The service token is read from the environment variable configured for the
selected environment (see 'epson-cfg config show').`,
	Example: `  epson-cfg merchant 42 --env qa
  epson-cfg merchant 42 --env production --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runMerchant,
}

func init() {
	merchantCmd.Flags().StringVar(&merchantFormat, "format", "detailed", "Output format (detailed, json, yaml)")
}

func runMerchant(cmd *cobra.Command, args []string) error {
	merchantID := args[0]
	if err := admin.ValidateMerchantID(merchantID); err != nil {
		return err
	}

	client, _, err := adminClient()
	if err != nil {
		return err
	}

	merchant, err := client.ValidateMerchant(merchantID)
	if err != nil {
		ui.PrintFailure(os.Stdout, "Merchant check failed", err, troubleshooting(err))
		return err
	}

	cfg, err := client.FetchConfig(merchantID)
	if err != nil {
		ui.PrintFailure(os.Stdout, "Could not fetch configuration", err, troubleshooting(err))
		return err
	}

	switch merchantFormat {
	case "json":
		shown := *cfg
		if shown.Password != "" {
			shown.Password = "********"
		}
		data, err := json.MarshalIndent(shown, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Print(string(data))
	case "detailed", "":
		fmt.Printf("Merchant:  %s (%s)\n", merchant.MerchantName, merchantID)
		if merchant.Location != "" {
			fmt.Printf("Location:  %s\n", merchant.Location)
		}
		if cfg.Password != "" {
			fmt.Printf("Printer password:  %s\n", cfg.Password)
		}
		fmt.Println()
		fmt.Print(printer.FormatSettings(*cfg.Settings()))
	default:
		return fmt.Errorf("unknown format %q (use detailed, json or yaml)", merchantFormat)
	}
	return nil
}

// provisionCmd runs the full provisioning flow for one merchant
var provisionCmd = &cobra.Command{
	Use:   "provision <merchant-id>",
	Short: "Provision a printer for a merchant",
	Long: `Fetch the merchant's printer configuration from the administration service
and apply it to the printer.

Steps:
  1. Validate the merchant
  2. Fetch the printer configuration
  3. Set the merchant's password on the printer and test the connection
  4. Apply the settings (TM-T88VI: verify and restart)
  5. Ask the service to send a test print (with --send-test)

The tool logs in with the merchant's password from the service. It shows
where and how to set that password in the printer's web config, then tests
the connection until the printer accepts it. Pass --password to log in with
a password that is already set instead.`,
	Example: `  epson-cfg provision 42 --printer 192.168.1.50 --model vi --env production
  epson-cfg provision 42 --printer 192.168.1.50 --model vi --send-test`,
	Args: cobra.ExactArgs(1),
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().BoolVar(&sendTest, "send-test", false, "Ask the service to send a test print when done")
}

func runProvision(cmd *cobra.Command, args []string) error {
	merchantID := args[0]
	if err := admin.ValidateMerchantID(merchantID); err != nil {
		return err
	}

	client, adminURL, err := adminClient()
	if err != nil {
		return err
	}

	t, err := resolvePrinter(cmd)
	if err != nil {
		return err
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Provision Printer",
		Command: cmd.CommandPath() + " " + merchantID,
		Params: []ui.Detail{
			{Key: "Merchant", Value: merchantID},
			{Key: "Service", Value: adminURL},
			{Key: "Printer", Value: t.address},
			{Key: "Model", Value: t.model.String()},
		},
		StepNames: []string{
			"Validate merchant",
			"Fetch printer configuration",
			"Test printer connection",
			"Apply settings",
			"Send test print",
		},
		Hints: hintFor,
	})

	return runner.Run(func(onStep ui.StepCallback) ([]ui.Detail, error) {
		onStep(1, ui.StepRunning, "")
		merchant, err := client.ValidateMerchant(merchantID)
		if err != nil {
			onStep(1, ui.StepFailed, "")
			return nil, err
		}
		onStep(1, ui.StepComplete, merchant.MerchantName.String())

		onStep(2, ui.StepRunning, "")
		cfg, err := client.FetchConfig(merchantID)
		if err != nil {
			onStep(2, ui.StepFailed, "")
			return nil, err
		}
		settings := cfg.Settings()
		if err := settings.Validate(); err != nil {
			onStep(2, ui.StepFailed, "invalid values")
			return nil, err
		}
		onStep(2, ui.StepComplete, fmt.Sprintf("%d group(s)", countGroups(settings)))

		pw, fromMerchant, err := sessionPassword(cmd, cfg)
		if err != nil {
			return nil, err
		}
		adapter, err := buildAdapter(t, pw)
		if err != nil {
			return nil, err
		}

		setup := passwordSetup{
			in:          bufio.NewReader(os.Stdin),
			out:         os.Stdout,
			interactive: term.IsTerminal(int(os.Stdin.Fd())),
			webURL:      adapter.Session().BaseURL(),
		}
		if fromMerchant {
			setup.newPassword = pw
		}
		connected := setup.connect(func() bool {
			onStep(3, ui.StepRunning, "")
			return loggedIn(adapter)
		})
		if !connected {
			onStep(3, ui.StepFailed, "")
			return nil, &printer.DeviceError{
				Type:     printer.ErrTypeConnection,
				Message:  fmt.Sprintf("could not log in to the printer at %s", t.address),
				DeviceIP: t.address,
			}
		}
		onStep(3, ui.StepComplete, "")

		cfg.Stage(adapter)
		onStep(4, ui.StepRunning, "")
		result, err := applyWithSpinner(adapter)
		if err != nil {
			if result == nil {
				onStep(4, ui.StepFailed, "")
				return nil, err
			}
			onStep(4, ui.StepFailed, result.Status.String())
			if result.Status == printer.StatusMismatch {
				return nil, fmt.Errorf("%w\n%s", err, result.Report.String())
			}
			return nil, err
		}
		onStep(4, ui.StepComplete, strings.Join(result.Applied, ", "))

		details := []ui.Detail{
			{Key: "Merchant", Value: merchant.MerchantName.String()},
			{Key: "Printer", Value: t.address},
			{Key: "Result", Value: result.String()},
		}

		if !sendTest {
			onStep(5, ui.StepSkipped, "use --send-test")
			return details, nil
		}
		onStep(5, ui.StepRunning, "")
		msg, err := client.SendTest(merchantID)
		if err != nil {
			onStep(5, ui.StepFailed, "")
			runner.Warn("Printer provisioned but the test print was not sent: " + err.Error())
			return details, nil
		}
		onStep(5, ui.StepComplete, msg)
		return details, nil
	})
}

// sessionPassword picks the password provision logs in with: --password,
// then the merchant's password, then the usual prompt. merchant reports
// whether the merchant's password was chosen.
func sessionPassword(cmd *cobra.Command, cfg *admin.MerchantConfig) (pw string, merchant bool, err error) {
	if cmd.Flags().Changed("password") || cfg.Password == "" {
		pw, err = printerPassword(cmd)
		return pw, false, err
	}
	return cfg.Password.String(), true, nil
}

// loggedIn reports whether the printer answers and accepts the session
// password. TestConnection alone also passes with a wrong password.
func loggedIn(a printer.Adapter) bool {
	if !a.TestConnection() {
		return false
	}
	_, err := a.Configuration()
	return err == nil
}

// passwordSetup gets the operator to set the merchant's password on the
// printer and tests the connection until the printer accepts it
type passwordSetup struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	webURL      string
	newPassword string // empty when no instructions are needed
}

// connect runs test until it succeeds. Off a terminal there is one attempt;
// on a terminal the operator decides whether to try again.
func (p passwordSetup) connect(test func() bool) bool {
	for {
		if p.newPassword != "" {
			_, _ = fmt.Fprintln(p.out)
			_, _ = fmt.Fprintln(p.out, ui.PasswordInstructions(p.webURL,
				printer.DefaultUsername, printer.DefaultPassword, p.newPassword).Render())
			if p.interactive {
				ui.WaitForEnter(p.in, p.out, "Press Enter when you're finished... ")
			}
		}

		if test() {
			return true
		}
		if !p.interactive {
			return false
		}

		_, _ = fmt.Fprintln(p.out)
		_, _ = fmt.Fprintln(p.out, ui.ErrorMessageStyle.Render("Unable to log in to the printer."))
		question := "Test the connection again?"
		if p.newPassword != "" {
			question = "Set the password again and retest?"
		}
		if !ui.Confirm(p.in, p.out, question) {
			return false
		}
	}
}
