// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// One-shot question command.
//
// Command: ask <question...>
//
// Examples:
//   pulse ask "What changed in signups this week?"
//   pulse ask --conversation conv_42 "And compared to last month?"
//   pulse ask --json "Summarize today"
//
// Flags:
//   --conversation ID   Continue an existing conversation
//   --json              Print the raw reply and conversation id as JSON

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/model"
)

// askResult is the --json output shape.
type askResult struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversationId,omitempty"`
}

// HandleAsk sends one question and prints the streamed answer.
func HandleAsk(client *api.Client, args Args) error {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		return fmt.Errorf("usage: pulse ask \"question\"")
	}
	if !client.IsAuthenticated() {
		return fmt.Errorf("not signed in: run `pulse login` first")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stream, err := client.SendMessage(ctx, question, args.ConversationID)
	if err != nil {
		return err
	}
	defer stream.Close()

	// A terminal gets the answer re-rendered as markdown once complete;
	// pipes and --json get the raw text. Streaming to a terminal still
	// prints tokens live so the wait is visible, then repaints.
	interactive := term.IsTerminal(int(os.Stdout.Fd())) && !args.JSON && !args.Quiet

	var reply strings.Builder
	var conversationID string
	failed := false

	for {
		ev, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch ev.Type {
		case model.EventStart:
			if conversationID == "" {
				conversationID = ev.ConversationID
			}
		case model.EventContent:
			reply.WriteString(ev.Text)
			if interactive {
				fmt.Print(ev.Text)
			}
		case model.EventError:
			failed = true
			if ev.Text != "" {
				reply.Reset()
				reply.WriteString(ev.Text)
			}
		case model.EventEnd:
			// Keep draining; the decoder stops at transport EOF.
		}
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(askResult{
			Reply:          reply.String(),
			ConversationID: conversationID,
		})
	}

	if failed {
		if interactive {
			fmt.Println()
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render(reply.String()))
		return fmt.Errorf("assistant returned an error")
	}

	if interactive {
		fmt.Println()
		if rendered, err := renderMarkdown(reply.String()); err == nil {
			fmt.Println()
			fmt.Print(rendered)
		}
	} else {
		fmt.Println(reply.String())
	}

	if !args.Quiet && conversationID != "" && interactive {
		fmt.Println(dimStyle.Render("conversation: " + conversationID))
	}
	return nil
}

// renderMarkdown formats a complete reply for terminal display.
func renderMarkdown(text string) (string, error) {
	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
		width = w
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}
