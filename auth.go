package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/gdrive-go/internal/tokenfile"
)

func newAuthURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth-url",
		Short: "Print the URL that grants this client access to Google Drive",
		Args:  cobra.NoArgs,
		RunE:  runAuthURL,
	}
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange an authorization code for an access token and save it",
		Long: `Exchange an authorization code for an access token and save it.

Without --code, the consent URL is printed and the code is read from stdin.`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().String("code", "", "authorization code from the consent page")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved access token",
		Args:  cobra.NoArgs,
		RunE:  runLogout,
	}
}

func runAuthURL(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	client, err := newDriveClient(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}

	loginURL := client.LoginURL()

	if cc.Flags.JSON {
		return printJSON(cmd.OutOrStdout(), map[string]string{"url": loginURL})
	}

	fmt.Fprintln(cmd.OutOrStdout(), loginURL)

	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())
	ctx := cmd.Context()

	client, err := newDriveClient(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}

	code, err := cmd.Flags().GetString("code")
	if err != nil {
		return err
	}

	if code == "" {
		// The prompt must stay visible under --quiet.
		fmt.Fprintf(cmd.ErrOrStderr(), "Visit this URL to authorize gdrive-go:\n\n  %s\n\n", client.LoginURL())
		fmt.Fprint(cmd.ErrOrStderr(), "Enter the authorization code: ")

		code, err = readCode(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	cc.Logger.Info("login started", slog.String("token_file", cc.Cfg.TokenFile))

	sess, err := client.ExchangeToken(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	if err := tokenfile.Save(cc.Cfg.TokenFile, &tokenfile.File{
		AccessToken: sess.AccessToken,
		TokenType:   sess.TokenType,
		Expiry:      sess.Expiry,
		Scope:       cc.Cfg.Scope,
	}); err != nil {
		return err
	}

	cc.Logger.Info("login successful", slog.String("token_file", cc.Cfg.TokenFile))
	cc.Statusf("Login successful. Token saved to %s\n", cc.Cfg.TokenFile)

	return nil
}

// readCode reads one non-empty line from r.
func readCode(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading authorization code: %w", err)
		}

		return "", errors.New("no authorization code entered")
	}

	code := strings.TrimSpace(scanner.Text())
	if code == "" {
		return "", errors.New("no authorization code entered")
	}

	return code, nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	removed, err := tokenfile.Remove(cc.Cfg.TokenFile)
	if err != nil {
		return err
	}

	if !removed {
		cc.Statusf("Not logged in.\n")
		return nil
	}

	cc.Logger.Info("logout successful", slog.String("token_file", cc.Cfg.TokenFile))
	cc.Statusf("Logged out.\n")

	return nil
}
