package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/alphamobile/sessioncore/internal/ledger"
)

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	if _, err := a.core.Session.Register(ctx, username, password); err != nil {
		return err
	}
	printlnFn("Success!")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.core.Session.Login(ctx, username, password); err != nil {
		return err
	}
	printlnFn("Logged in as " + username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	return a.core.Session.Logout(ctx)
}

func (a *App) Activities(ctx context.Context) error {
	entries, err := a.core.Session.Activities(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printlnFn("No recent activity")
		return nil
	}
	for _, e := range entries {
		printlnFn(fmt.Sprintf("%s  %s: %s",
			e.Time().Format(time.DateTime),
			ledger.MessageText(e.TitleRef),
			ledger.MessageText(e.DescriptionRef)))
	}
	return nil
}

func (a *App) ClearActivities(ctx context.Context) error {
	return a.core.Session.ClearActivities(ctx)
}

func (a *App) Profile(ctx context.Context) error {
	doc, err := a.core.Session.LoadProfileDocument(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printlnFn(fmt.Sprintf("%s = %v", k, doc[k]))
	}
	return nil
}

func (a *App) SetProfileField(ctx context.Context) error {
	key, err := GetSimpleText(a.reader, "Field name", os.Stdout)
	if err != nil {
		return err
	}
	value, err := GetSimpleText(a.reader, "Value", os.Stdout)
	if err != nil {
		return err
	}
	return a.core.Session.SaveProfileField(ctx, key, value)
}

func (a *App) ResetPassword(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		return err
	}
	oldPassword, err := GetPassword("Enter current password", os.Stdout)
	if err != nil {
		return err
	}
	newPassword, err := GetPassword("Enter new password", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.core.Session.ResetPassword(ctx, username, oldPassword, newPassword); err != nil {
		return err
	}
	printlnFn("Password updated")
	return nil
}

func (a *App) DeleteAccount(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter user name to delete", os.Stdout)
	if err != nil {
		return err
	}
	confirm, err := GetSimpleText(a.reader, "Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		printlnFn("Aborted")
		return nil
	}
	deleted, err := a.core.Session.DeleteAccount(ctx, username)
	if err != nil {
		return err
	}
	if !deleted {
		printlnFn("No such account")
		return nil
	}
	printlnFn("Account deleted")
	return nil
}

func (a *App) Language(ctx context.Context) error {
	current, err := a.core.Session.Language(ctx)
	if err != nil {
		return err
	}
	code, err := GetSimpleText(a.reader, "Language ["+current+"], empty keeps current", os.Stdout)
	if err != nil {
		return err
	}
	if code == "" {
		return nil
	}
	return a.core.Session.SetLanguage(ctx, code)
}

func (a *App) Notifications(ctx context.Context, enabled bool) error {
	return a.core.Settings.SetNotificationsEnabled(ctx, enabled)
}
