package cli

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecoshop/storefront/internal/api/handler"
	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
	"github.com/ecoshop/storefront/internal/core/service"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := st.enter(ctx, domain.PathLogin); err != nil {
				return err
			}

			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if username == "" {
				if username, err = prompt(in, cmd.OutOrStdout(), "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(in, cmd.OutOrStdout(), "Password: "); err != nil {
					return err
				}
			}

			s, err := st.auth.SignIn(ctx, username, password)
			if err != nil {
				return failed(err, "Login failed. Please try again.")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", s.Identity.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted if omitted)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted if omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var in ports.SignUpInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := st.enter(ctx, domain.PathRegister); err != nil {
				return err
			}

			r := bufio.NewReader(cmd.InOrStdin())
			fields := []struct {
				label string
				dst   *string
			}{
				{"Username: ", &in.Username},
				{"Email: ", &in.Email},
				{"Password: ", &in.Password},
			}
			for _, f := range fields {
				if *f.dst != "" {
					continue
				}
				v, err := prompt(r, cmd.OutOrStdout(), f.label)
				if err != nil {
					return err
				}
				*f.dst = v
			}
			if err := validateSignUp(in); err != nil {
				return err
			}

			s, msg, err := st.auth.RegisterAndSignIn(ctx, in)
			switch {
			case errors.Is(err, service.ErrRegisteredNotSignedIn):
				fmt.Fprintf(cmd.OutOrStdout(), "%s. Please login.\n", msg)
				return nil
			case err != nil:
				return failed(err, "Registration failed. Please try again.")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nWelcome, %s!\n", msg, s.Identity.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "Username, 3 to 50 characters")
	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "Password, at least 6 characters")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			st.sessions.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "You have been logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := st.sessions.Hydrate(cmd.Context())
			out := cmd.OutOrStdout()
			if !s.Authenticated() {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}
			fmt.Fprintf(out, "%s <%s> %s\n", s.Identity.Username, s.Identity.Email, s.Identity.Role)
			for _, c := range domain.Capabilities(s) {
				fmt.Fprintf(out, "  can %s\n", c)
			}
			return nil
		},
	}
}

type signUpForm struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func validateSignUp(in ports.SignUpInput) error {
	err := handler.NewValidator().Validate(signUpForm{Username: in.Username, Email: in.Email, Password: in.Password})
	if err != nil {
		return failed(err, "Registration failed. Please try again.")
	}
	return nil
}
