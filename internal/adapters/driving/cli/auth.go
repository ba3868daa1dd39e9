package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: `Sign in with your Google account.

A browser window opens on Google's consent screen. proemail asks for read
access to Gmail and write access to calendar events. If the browser cannot
be opened, the consent URL is printed instead.

After sign-in the first fetch runs immediately.

The OAuth client is configured with:
  proemail config set google.client_id <id>
  proemail config set-secret google.client_secret`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and revoke access",
	Long: `Sign out, revoke the delegated Google token and forget the cached
fetched events. Custom events, completed marks and deletions are kept.`,
	RunE: runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in account",
	RunE:  runStatus,
}

var refreshTokenCmd = &cobra.Command{
	Use:   "refresh-token",
	Short: "Refresh the Google access token now",
	Long: `Refresh the delegated Google access token without user interaction.
Requires a session that was granted offline access.`,
	RunE: runRefreshToken,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(refreshTokenCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if err := requireDashboard(); err != nil {
		return err
	}
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err == nil && !settings.Google.IsConfigured() {
			return errors.New("google.client_id is not set; run 'proemail config set google.client_id <id>'")
		}
	}

	cmd.Println("Opening browser for Google sign-in...")
	if err := dashboard.Login(commandContext(cmd)); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if err := requireDashboard(); err != nil {
		return err
	}
	if err := dashboard.Logout(commandContext(cmd)); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, err := sessionService.Load(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		cmd.Println("Not signed in.")
		return nil
	}

	cmd.Printf("Signed in as %s\n", session.UserEmail)
	if !session.AcquiredAt.IsZero() {
		cmd.Printf("Signed in at: %s\n", session.AcquiredAt.Local().Format(time.RFC1123))
	}
	if !session.TokenExpiry.IsZero() {
		cmd.Printf("Token expiry: %s\n", session.TokenExpiry.Local().Format(time.RFC1123))
	}
	if session.HasRefreshToken() {
		cmd.Println("Offline access: yes")
	} else {
		cmd.Println("Offline access: no")
	}
	return nil
}

func runRefreshToken(cmd *cobra.Command, _ []string) error {
	if sessionService == nil || tokenRefresher == nil {
		return errors.New("token refresh not configured")
	}
	ctx := commandContext(cmd)

	session, err := sessionService.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("%w: run 'proemail login' first", domain.ErrAuthRequired)
	}

	refreshed, err := tokenRefresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	cmd.Printf("Token refreshed; valid until %s.\n", refreshed.TokenExpiry.Local().Format(time.RFC1123))
	return nil
}
