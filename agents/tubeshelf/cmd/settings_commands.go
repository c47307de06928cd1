package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
	}
	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			s := m.Library.Settings()
			rows := [][]string{
				{"client_id", s.ClientID},
				{"api_key", maskSecret(s.APIKey)},
				{"max_results", strconv.FormatInt(s.EffectiveMaxResults(), 10)},
			}
			writeRows(cmd.OutOrStdout(), []string{"Setting", "Value"}, rows, nil)
			return nil
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var (
		clientID   string
		apiKey     string
		maxResults int64
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings; unset flags keep their value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			s := m.Library.Settings()
			if cmd.Flags().Changed("client-id") {
				s.ClientID = clientID
			}
			if cmd.Flags().Changed("api-key") {
				s.APIKey = apiKey
			}
			if cmd.Flags().Changed("max-results") {
				s.MaxResults = maxResults
			}
			if err := m.Library.UpdateSettings(cmd.Context(), s); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client ID")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "YouTube Data API key")
	cmd.Flags().Int64Var(&maxResults, "max-results", 0, "Uploads fetched per channel (0-50)")
	return cmd
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[:4] + "…"
}
