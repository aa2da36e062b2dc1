package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/michaelRS2002/Popfix-front/internal/forms"
	"github.com/michaelRS2002/Popfix-front/internal/services"
)

// AccountShow fetches and prints the signed-in profile.
func (r *Runner) AccountShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	session, err := r.sessions.Read()
	if err != nil {
		return err
	}

	user, err := r.auth.User(ctx, session.UserID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Account")
	r.writePlain("Name: %s\n", user.Name)
	r.writePlain("Email: %s\n", user.Email)
	if user.Age > 0 {
		r.writePlain("Age: %d\n", user.Age)
	}
	return nil
}

// AccountUpdate patches the provided profile fields.
func (r *Runner) AccountUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	var update services.UserUpdate

	if cmd.IsSet("name") {
		name := cmd.String("name")
		if err := forms.ValidateName(name); err != nil {
			return err
		}
		update.Name = &name
	}
	if cmd.IsSet("email") {
		email := cmd.String("email")
		if err := forms.ValidateEmail(email); err != nil {
			return err
		}
		update.Email = &email
	}
	if cmd.IsSet("age") {
		age := int(cmd.Int("age"))
		if err := forms.ValidateAge(age); err != nil {
			return err
		}
		update.Age = &age
	}

	if update.Name == nil && update.Email == nil && update.Age == nil {
		return fmt.Errorf("nothing to update, pass --name, --email, or --age")
	}

	session, err := r.sessions.Read()
	if err != nil {
		return err
	}

	user, err := r.auth.UpdateUser(ctx, session.UserID, update)
	if err != nil {
		return err
	}

	r.logger.Info("profile updated", "user", user.Name)
	return r.writePlainln("Profile updated")
}

// AccountDelete removes the account and clears the local session.
func (r *Runner) AccountDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		return fmt.Errorf("account deletion is permanent, re-run with --yes to confirm")
	}

	session, err := r.sessions.Read()
	if err != nil {
		return err
	}

	if err := r.auth.DeleteUser(ctx, session.UserID); err != nil {
		return err
	}

	return r.writePlainln("Account deleted")
}
