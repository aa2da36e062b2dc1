package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/michaelRS2002/Popfix-front/internal/forms"
)

// AuthLogin signs in and caches the resulting session locally.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	if result := forms.ValidateLoginForm(email, password); !result.IsValid {
		for field, message := range result.Errors {
			r.writePlain("%s: %s\n", field, message)
		}
		return fmt.Errorf("invalid login form")
	}

	session, err := r.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	r.logger.Info("signed in", "user", session.Email)
	return r.writePlainln("Signed in as %s", session.Email)
}

// AuthRegister creates an account after validating the form locally.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	email := cmd.String("email")
	age := int(cmd.Int("age"))
	password := cmd.String("password")
	confirm := cmd.String("confirm")

	if result := forms.ValidateRegisterForm(name, email, age, password, confirm); !result.IsValid {
		for field, message := range result.Errors {
			r.writePlain("%s: %s\n", field, message)
		}
		return fmt.Errorf("invalid registration form")
	}

	if err := r.auth.Register(ctx, name, email, age, password); err != nil {
		return err
	}

	return r.writePlainln("Account created. Sign in with 'popfix auth login'")
}

// AuthLogout invalidates the remote session and clears the local cache.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.auth.Logout(ctx); err != nil {
		// Local cache is already cleared; report the remote failure.
		r.writePlainln("Signed out locally")
		return err
	}
	return r.writePlainln("Signed out")
}

// AuthStatus prints the cached session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	session, err := r.auth.Session()
	if err != nil {
		return err
	}

	if !session.Authenticated() {
		return r.writePlainln("Not signed in")
	}

	r.writePlainHeader("Session")
	r.writePlain("User: %s\n", session.DisplayName)
	r.writePlain("Email: %s\n", session.Email)
	r.writePlain("User ID: %s\n", session.UserID)
	return nil
}

// AuthForgot requests a password recovery email.
func (r *Runner) AuthForgot(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	if err := forms.ValidateEmail(email); err != nil {
		return err
	}

	message, err := r.auth.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	return r.writePlainln("%s", message)
}

// AuthReset redeems a recovery token for a new password.
func (r *Runner) AuthReset(ctx context.Context, cmd *cli.Command) error {
	password := cmd.String("password")
	if err := forms.ValidatePassword(password); err != nil {
		return err
	}

	if err := r.auth.ResetPassword(ctx, cmd.String("token"), password); err != nil {
		return err
	}
	return r.writePlainln("Password updated. Sign in with 'popfix auth login'")
}
