// Command marketctl is the console front end of the marketplace: browse and
// filter listings, post ads, apply for verification, moderate requests and
// follow notifications.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketplace/internal/client"
	"marketplace/internal/config"
	"marketplace/internal/logging"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	// flags
	profilePath string
	baseURL     string
	token       string
	debug       bool

	profile config.Profile
	client  *client.Client
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "marketctl",
		Short: "Marketplace console client",
		Long: `marketctl talks to the marketplace backend.

Settings come from a YAML profile (--profile); every field has a default, so
the client works against a local backend without one.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.profilePath, "profile", defaultProfilePath(), "path to the YAML profile")
	rootCmd.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "backend address (overrides the profile)")
	rootCmd.PersistentFlags().StringVar(&a.token, "token", "", "admin bearer token (overrides the profile)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newListingsCmd(a),
		newVerifyCmd(a),
		newNotificationsCmd(a),
		newDashboardCmd(a),
		newAdminCmd(),
	)
	return rootCmd
}

func (a *app) init() error {
	logger, err := logging.New(a.debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	profile, err := config.LoadProfile(a.profilePath)
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		profile.BaseURL = a.baseURL
	}
	if a.token != "" {
		profile.AdminToken = a.token
	}
	a.profile = profile

	opts := []client.Option{client.WithLogger(logger)}
	if profile.AdminToken != "" {
		opts = append(opts, client.WithToken(profile.AdminToken))
	}
	a.client = client.New(profile.BaseURL, opts...)

	a.logger.Debug("Client configured", zap.String("base_url", profile.BaseURL))
	return nil
}

// userID returns the flag value, falling back to the profile's user.
func (a *app) userID(flagValue uint) (uint, error) {
	if flagValue != 0 {
		return flagValue, nil
	}
	if a.profile.UserID != 0 {
		return a.profile.UserID, nil
	}
	return 0, fmt.Errorf("no user: pass --user or set user_id in the profile")
}

func defaultProfilePath() string {
	if p := os.Getenv("MARKETCTL_PROFILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.marketctl.yaml"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
