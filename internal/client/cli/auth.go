package cli

import (
	"context"
	"fmt"

	"github.com/stremthru/dashctl/internal/client/config"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// signIn prompts for credentials and authenticates. An already-active
// session short-circuits without prompting. On success the session cookie
// lives in the client's jar and the user is cached.
func (a *App) signIn(ctx context.Context) error {
	a.revalidateSession(ctx)
	if a.isSignedIn() {
		fmt.Fprintf(a.out, "Already signed in as %s.\n", a.user.ID)
		return nil
	}

	user, err := getSimpleText(a.reader, "Enter user", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	authed, err := a.auth.SignIn(ctx, user, password)
	if err != nil {
		return err
	}
	a.user = authed
	fmt.Fprintln(a.out, "Signed in.")
	return nil
}

func (a *App) signOut(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		return err
	}
	a.user = nil
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// switchTheme shows or changes the theme. A change is persisted so the next
// start keeps it.
func (a *App) switchTheme(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "theme:", a.theme)
		return nil
	}
	theme := args[0]
	if err := config.SaveTheme(theme); err != nil {
		return err
	}
	a.theme = theme
	fmt.Fprintln(a.out, "theme set to", theme)
	return nil
}
