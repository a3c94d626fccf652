// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Auth command handlers: login, register, logout, whoami.
//
// Commands:
//   pulse login [--email ADDR]
//   pulse register [--email ADDR] [--name NAME]
//   pulse logout
//   pulse whoami [--json]

package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/model"
	"github.com/pulsedash/pulse-tui/internal/session"
)

// =============================================================================
// LOGIN / REGISTER
// =============================================================================

// HandleLogin prompts for credentials, signs in, and saves the session.
func HandleLogin(client *api.Client, sessions *session.Store, args Args) error {
	email := args.Email
	if email == "" {
		var err error
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	auth, err := client.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := sessions.Save(&session.Session{Token: auth.Token, User: auth.User}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if !args.Quiet {
		fmt.Println(successStyle.Render("Signed in as " + auth.User.Email))
	}
	return nil
}

// HandleRegister prompts for account details and creates an account.
func HandleRegister(client *api.Client, sessions *session.Store, args Args) error {
	email := args.Email
	if email == "" {
		var err error
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}

	name := args.Name
	if name == "" {
		var err error
		name, err = promptLine("Name: ")
		if err != nil {
			return err
		}
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	auth, err := client.Register(context.Background(), email, password, name)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if err := sessions.Save(&session.Session{Token: auth.Token, User: auth.User}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if !args.Quiet {
		fmt.Println(successStyle.Render("Account created. Signed in as " + auth.User.Email))
	}
	return nil
}

// =============================================================================
// LOGOUT / WHOAMI
// =============================================================================

// HandleLogout discards the saved session. There is no server-side
// invalidation endpoint; the token simply stops being presented.
func HandleLogout(sessions *session.Store, args Args) error {
	if err := sessions.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if !args.Quiet {
		fmt.Println(successStyle.Render("Signed out."))
	}
	return nil
}

// HandleWhoami prints the user recorded in the saved session.
func HandleWhoami(sessions *session.Store, args Args) error {
	sess, err := sessions.Load()
	if err != nil {
		if err == session.ErrNoSession {
			fmt.Println(dimStyle.Render("Not signed in. Run `pulse login`."))
			return nil
		}
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(sess.User)
	}
	printUser(sess.User)
	return nil
}

func printUser(u model.User) {
	fmt.Println(labelStyle.Render("Name:  ") + valueStyle.Render(u.Name))
	fmt.Println(labelStyle.Render("Email: ") + valueStyle.Render(u.Email))
	if u.ID != "" {
		fmt.Println(labelStyle.Render("ID:    ") + dimStyle.Render(u.ID))
	}
}

// =============================================================================
// PROMPTS
// =============================================================================

// promptLine reads one line of visible input from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(promptStyle.Render(prompt))
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing it.
func promptPassword(prompt string) (string, error) {
	fmt.Print(promptStyle.Render(prompt))
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(passBytes)), nil
}
