// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"ratatouille/cli/internal/api"
	"ratatouille/cli/internal/render"
	"ratatouille/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	chatRaw bool
)

const chatPrompt = "You › "

// chatCmd sends messages to the chat webhook and prints the AI replies.
var chatCmd = &cobra.Command{
	Use:   "chat [MESSAGE...]",
	Short: "Chat with the Ratatouille assistant",
	Long: `The chat command sends a message to the chat webhook and prints the assistant's reply.

With a message argument (or piped stdin) a single message is sent. Without one, in a
terminal, an interactive session starts; type 'exit' or press Ctrl+D to leave.
Each message is an independent request: the webhook keeps any conversation state.`,
	Example: `  ratatouille chat "What goes into a ratatouille?"
  ratatouille chat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if len(args) == 0 && terminal.IsInteractive() {
			return runChatSession(cmd.Context(), client, cmd.InOrStdin(), cmd.OutOrStdout())
		}

		message, err := readInput(args, cmd.InOrStdin(), "message")
		if err != nil {
			return err
		}
		return sendChat(cmd.Context(), client, cmd.OutOrStdout(), message)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&chatRaw, "json", false, "Print the raw JSON reply")
}

// sendChat submits one message and renders the reply.
func sendChat(ctx context.Context, client *api.Client, out io.Writer, message string) error {
	stop := startSpinner("Thinking")
	reply, err := client.SubmitChatMessage(ctx, message)
	stop()
	if err != nil {
		return presentRequestError(err, "sending the message", client.Config().URL(api.EndpointChatMessage))
	}
	return render.ChatMessage(out, reply, chatRaw)
}

// runChatSession reads messages line by line until EOF or an exit command.
// A failed message is reported and the session continues.
func runChatSession(ctx context.Context, client *api.Client, in io.Reader, out io.Writer) error {
	pterm.Info.Println("Chatting with Ratatouille. Type 'exit' to leave.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, chatPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit", ":q":
			return nil
		}

		// Replace the raw prompt with a styled echo of the message.
		terminal.ClearPreviousLines(utf8.RuneCountInString(chatPrompt + line))
		fmt.Fprintln(out, pterm.NewStyle(pterm.FgLightBlue, pterm.Bold).Sprint("You: ")+line)

		if err := sendChat(ctx, client, out, line); err != nil {
			pterm.Error.Println(err.Error())
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
