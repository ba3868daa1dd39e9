package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and configure application settings",
	Long: `View the effective settings, or configure the Google OAuth client and
calendar forwarding with the interactive wizard.

Individual keys can be changed with 'proemail config set'.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure sign-in and calendar forwarding step by step.`,
	RunE:  runSettingsWizard,
}

var settingsCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Choose where extracted events are forwarded",
	Long: `Choose where extracted events are forwarded.

Available modes:
  backend - the proemail backend adds them to your calendar (default)
  google  - proemail inserts them into your primary Google Calendar directly
  off     - events are only listed locally`,
	RunE: runSettingsCalendar,
}

// stdin is where interactive answers are read from.
var stdin io.Reader = os.Stdin

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsCalendarCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  URL: %s\n", settings.Backend.URL)
	cmd.Printf("  Timeout: %s\n", settings.Backend.Timeout)
	cmd.Printf("  Rate limit: %.1f req/s (burst %d)\n", settings.Backend.RequestsPerSecond, settings.Backend.Burst)
	cmd.Printf("  Store refresh token: %s\n", yesNo(settings.Backend.StoreRefreshToken))
	cmd.Println()

	cmd.Println("[Google]")
	if settings.Google.IsConfigured() {
		cmd.Printf("  Client ID: %s\n", settings.Google.ClientID)
	} else {
		cmd.Printf("  Client ID: (not set)\n")
	}
	if settings.Google.ClientSecret != "" {
		cmd.Printf("  Client secret: %s\n", maskSecret(settings.Google.ClientSecret))
	} else {
		cmd.Printf("  Client secret: (not set)\n")
	}
	cmd.Printf("  Verify ID token locally: %s\n", yesNo(settings.Google.VerifyIDToken))
	cmd.Println()

	cmd.Println("[Session]")
	cmd.Printf("  Reuse sessions for: %s\n", settings.Session.FreshnessWindow)
	cmd.Printf("  Refresh token every: %s\n", settings.Session.RefreshInterval)
	cmd.Println()

	cmd.Println("[Fetch]")
	cmd.Printf("  Attempts: %d (delay %s)\n", settings.Fetch.MaxAttempts, settings.Fetch.RetryDelay)
	cmd.Printf("  Messages per cycle: %d\n", settings.Fetch.MessageCap)
	cmd.Printf("  Poll interval: %s\n", settings.Fetch.PollInterval)
	cmd.Println()

	cmd.Println("[Events]")
	cmd.Printf("  Calendar: %s\n", settings.Calendar)
	cmd.Printf("  Key mode: %s\n", settings.KeyMode)
	cmd.Printf("  Storage: %s\n", settings.Storage.Backend)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'proemail settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("proemail Settings Wizard")
	cmd.Println("========================")
	cmd.Println()

	reader := bufio.NewReader(stdin)

	cmd.Println("Step 1: Google OAuth Client")
	cmd.Println("---------------------------")
	cmd.Println("Create a Desktop OAuth client in the Google Cloud console and paste its credentials.")
	cmd.Print("Client ID: ")
	clientID := readLine(reader)
	cmd.Print("Client secret (input hidden, optional): ")
	clientSecret := readPassword(reader)
	cmd.Println()

	if err := settingsService.SetGoogleClient(clientID, clientSecret); err != nil {
		return fmt.Errorf("failed to save google client: %w", err)
	}
	cmd.Println("Saved Google OAuth client.")
	cmd.Println()

	cmd.Println("Step 2: Calendar Forwarding")
	cmd.Println("---------------------------")
	mode, err := chooseCalendarMode(cmd, reader, 1)
	if err != nil {
		return err
	}
	if err := settingsService.SetCalendarMode(mode); err != nil {
		return fmt.Errorf("failed to set calendar mode: %w", err)
	}
	cmd.Printf("Calendar forwarding set to: %s\n\n", mode)

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved. Run 'proemail login' to sign in.")
	}

	return nil
}

func runSettingsCalendar(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	mode, err := chooseCalendarMode(cmd, bufio.NewReader(stdin), 0)
	if err != nil {
		return err
	}
	if err := settingsService.SetCalendarMode(mode); err != nil {
		return fmt.Errorf("failed to set calendar mode: %w", err)
	}
	cmd.Printf("Calendar forwarding set to: %s\n", mode)
	return nil
}

var calendarModes = []struct {
	mode        domain.CalendarMode
	description string
}{
	{domain.CalendarModeBackend, "Backend - the proemail backend adds events to your calendar"},
	{domain.CalendarModeGoogle, "Google - insert events into your primary calendar directly"},
	{domain.CalendarModeOff, "Off - keep events local"},
}

func chooseCalendarMode(cmd *cobra.Command, reader *bufio.Reader, defaultChoice int) (domain.CalendarMode, error) {
	for i, m := range calendarModes {
		cmd.Printf("  %d. %s\n", i+1, m.description)
	}
	if defaultChoice > 0 {
		cmd.Printf("\nEnter choice [%d]: ", defaultChoice)
	} else {
		cmd.Print("\nEnter choice: ")
	}
	idx := parseChoice(readLine(reader), len(calendarModes), defaultChoice)
	if idx == 0 {
		return "", errors.New("invalid selection")
	}
	return calendarModes[idx-1].mode, nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(reader *bufio.Reader) string {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
