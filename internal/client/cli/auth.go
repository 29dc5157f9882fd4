package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/essaydesk/internal/api"
	"github.com/dmitrijs2005/essaydesk/internal/client/client"
	"github.com/dmitrijs2005/essaydesk/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Register prompts for the account fields and creates the account. The
// assigned user id is printed on success.
func (a *App) Register(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter login", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	role, err := getSimpleText(a.reader, "Role (student/teacher)", a.out)
	if err != nil {
		return err
	}

	fullName, err := getSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Email (optional)", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	id, err := a.client.Register(ctx, &api.RegisterRequest{
		Login:    login,
		Password: string(password),
		Role:     strings.ToLower(role),
		FullName: fullName,
		Email:    email,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered, your id is %s\n", id)
	return nil
}

// Login prompts for credentials and opens a session on success. A failed
// login keeps any previous session untouched.
func (a *App) Login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter login", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	resp, err := a.client.Login(ctx, login, password)
	if err != nil {
		return err
	}

	a.setSession(&session{userID: resp.UserID, role: resp.Role, fullName: resp.FullName})
	a.setMode(ModeOnline)

	fmt.Fprintf(a.out, "Welcome, %s (%s, id %s)\n", displayName(resp.FullName, login), resp.Role, resp.UserID)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.setSession(nil)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// checkSession drops the local session once the server reports the token
// as expired.
func (a *App) checkSession(err error) error {
	if errors.Is(err, client.ErrSessionExpired) {
		a.setSession(nil)
	}
	return err
}

func displayName(fullName, login string) string {
	if fullName != "" {
		return fullName
	}
	return login
}
