// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Interactive line-mode chat command.
//
// Command: chat
//
// A lighter-weight alternative to the full TUI: one readline prompt,
// streamed answers printed inline. Input history persists across runs.
//
// Interactive commands:
//   /new            Start a new conversation
//   /list           List conversations
//   /open <id>      Switch to a conversation and show its history
//   /history        Reprint the current conversation
//   /help           Show commands
//   /quit           Exit (also Ctrl+D)
//   Ctrl+C          Cancel the current answer

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/config"
	"github.com/pulsedash/pulse-tui/internal/model"
)

// =============================================================================
// LINE EDITOR
// =============================================================================

// chatLiner wraps liner with persistent input history.
type chatLiner struct {
	line        *liner.State
	historyFile string
}

func newChatLiner() *chatLiner {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &chatLiner{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

func (c *chatLiner) read(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *chatLiner) close() {
	if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		c.line.WriteHistory(f)
		f.Close()
	}
	c.line.Close()
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// HandleChat runs the interactive chat loop.
func HandleChat(client *api.Client, args Args) error {
	if !client.IsAuthenticated() {
		return fmt.Errorf("not signed in: run `pulse login` first")
	}

	editor := newChatLiner()
	defer editor.close()

	conversationID := args.ConversationID
	if !args.Quiet {
		fmt.Println(promptStyle.Render("pulse chat") + dimStyle.Render("  /help for commands, /quit to exit"))
	}
	if conversationID != "" {
		if err := printHistory(client, conversationID); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		}
	}

	for {
		input, err := editor.read("> ")
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue // Ctrl+C at the prompt clears the line
			}
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			done, err := handleSlashCommand(client, input, &conversationID)
			if err != nil {
				fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
			}
			if done {
				return nil
			}
			continue
		}

		if err := streamAnswer(client, input, &conversationID); err != nil {
			if errors.Is(err, api.ErrSessionExpired) {
				return fmt.Errorf("session expired: run `pulse login` again")
			}
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		}
	}
}

// streamAnswer sends one message and prints the streamed reply. Ctrl+C
// cancels mid-answer without leaving the loop.
func streamAnswer(client *api.Client, message string, conversationID *string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stream, err := client.SendMessage(ctx, message, *conversationID)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		ev, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				break
			}
			fmt.Println()
			return err
		}
		switch ev.Type {
		case model.EventStart:
			if *conversationID == "" {
				*conversationID = ev.ConversationID
			}
		case model.EventContent:
			fmt.Print(ev.Text)
		case model.EventError:
			text := ev.Text
			if text == "" {
				text = "the assistant returned an error"
			}
			fmt.Print(errorStyle.Render(text))
		}
	}
	fmt.Println()

	if ctx.Err() != nil {
		fmt.Println(dimStyle.Render("(cancelled)"))
	}
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func handleSlashCommand(client *api.Client, input string, conversationID *string) (done bool, err error) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/new", "/n":
		*conversationID = ""
		fmt.Println(dimStyle.Render("started a new conversation"))
		return false, nil

	case "/list", "/l":
		convs, err := client.ListConversations(context.Background())
		if err != nil {
			return false, err
		}
		if len(convs) == 0 {
			fmt.Println(dimStyle.Render("no conversations yet"))
			return false, nil
		}
		for _, c := range convs {
			marker := "  "
			if c.ID == *conversationID {
				marker = "* "
			}
			fmt.Printf("%s%s  %s\n", marker, dimStyle.Render(c.ID), c.GetTitle())
		}
		return false, nil

	case "/open", "/o":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /open <id>")
		}
		*conversationID = fields[1]
		return false, printHistory(client, *conversationID)

	case "/history", "/h":
		if *conversationID == "" {
			fmt.Println(dimStyle.Render("no conversation open"))
			return false, nil
		}
		return false, printHistory(client, *conversationID)

	case "/help", "/?":
		fmt.Println(`  /new          start a new conversation
  /list         list conversations
  /open <id>    switch conversation and show history
  /history      reprint the current conversation
  /quit         exit`)
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
}

// printHistory fetches and prints a conversation transcript.
func printHistory(client *api.Client, conversationID string) error {
	msgs, err := client.GetHistory(context.Background(), conversationID)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		label := promptStyle.Render(m.Role.DisplayName() + ":")
		fmt.Printf("%s %s\n", label, m.Content)
	}
	return nil
}
