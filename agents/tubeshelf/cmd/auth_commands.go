package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tubeshelf/agents/tubeshelf"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with your Google account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			session, err := m.Login(cmd.Context())
			if errors.Is(err, tubeshelf.ErrAlreadyAuthenticated) {
				fmt.Fprintln(cmd.OutOrStdout(), "Already signed in")
				return nil
			}
			if err != nil {
				return err
			}

			who := "your account"
			if session.UserInfo != nil {
				who = fmt.Sprintf("%s <%s>", session.UserInfo.Name, session.UserInfo.Email)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s until %s\n", who,
				session.ExpiresTime().Format(time.Kitchen))
			return nil
		},
	}
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.open(cmd.Context())
			if err != nil {
				return err
			}
			session := m.Auth.Session(cmd.Context())
			if session.IsZero() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}

			if !yes {
				who := "this account"
				if session.UserInfo != nil {
					who = session.UserInfo.Email
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sign out of %s? [y/N] ", who)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := m.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
