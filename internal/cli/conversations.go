// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Conversation list and transcript commands.
//
// Commands:
//   pulse conversations                      List conversations
//   pulse conversations history <id>         Print a transcript
//     --limit N                              Most recent N messages
//   pulse conversations --json               Machine-readable list

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pulsedash/pulse-tui/internal/api"
	"github.com/pulsedash/pulse-tui/internal/util"
)

// HandleConversations dispatches the conversations subcommands.
func HandleConversations(client *api.Client, args Args) error {
	if !client.IsAuthenticated() {
		return fmt.Errorf("not signed in: run `pulse login` first")
	}

	switch args.Parser.Subcommand() {
	case "", "list":
		return listConversations(client, args)
	case "history", "show":
		id := args.Parser.Positional(1)
		if id == "" {
			return fmt.Errorf("usage: pulse conversations history <id>")
		}
		return showHistory(client, id, args)
	default:
		return fmt.Errorf("unknown subcommand %q\nUsage: pulse conversations [list|history <id>]",
			args.Parser.Subcommand())
	}
}

func listConversations(client *api.Client, args Args) error {
	convs, err := client.ListConversations(context.Background())
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(convs)
	}

	if len(convs) == 0 {
		fmt.Println(dimStyle.Render("No conversations yet. Start one with `pulse chat`."))
		return nil
	}

	for _, c := range convs {
		title := util.TruncateRunes(c.GetTitle(), 60)
		fmt.Printf("%s  %s  %s\n",
			dimStyle.Render(c.ID),
			valueStyle.Render(title),
			dimStyle.Render(c.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return nil
}

func showHistory(client *api.Client, conversationID string, args Args) error {
	msgs, err := client.GetHistory(context.Background(), conversationID)
	if err != nil {
		return err
	}

	if limit := args.Parser.FlagIntOrDefault("limit", 0); limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(msgs)
	}

	for _, m := range msgs {
		label := promptStyle.Render(m.Role.DisplayName())
		stamp := dimStyle.Render(m.CreatedAt.Format("15:04"))
		fmt.Printf("%s %s\n%s\n\n", label, stamp, m.Content)
	}
	return nil
}
