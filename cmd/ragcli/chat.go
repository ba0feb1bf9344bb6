package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/equipo25/ragcli/internal/chat"
	"github.com/equipo25/ragcli/internal/ragapi"
	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat against the indexed documents",
		Long: `Interactive chat. Each line is submitted as a question; commands:

  /stream        toggle streaming answers
  /tag <name>    toggle a tag filter
  /doc <id>      toggle a document filter
  /filters       show the active filters
  /catalog       list documents and available tags
  /quit          leave the chat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Require()
			if err != nil {
				return err
			}

			// Catalog fetched once per session, only to populate filter
			// choices. Failure is not fatal; filters can still be typed.
			catalog, err := a.docs.List(cmd.Context(), sess.Token)
			if err != nil {
				a.logger.WithError(err).Warn("Failed to fetch document catalog")
			}

			conversation := chat.NewSession(a.client, sess.Token, a.logger)
			conversation.SetStreaming(a.cfg.Chat.Streaming)
			conversation.OnChunk(func(text string) {
				fmt.Print(text)
			})

			fmt.Printf("Connected as %s. Type a question, or /quit to leave.\n", sess.User.Email)

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				if strings.HasPrefix(line, "/") {
					if quit := runChatCommand(conversation, catalog, line); quit {
						return nil
					}
					continue
				}

				if err := conversation.Submit(cmd.Context(), line); err != nil {
					fmt.Printf("!! %v\n", err)
					continue
				}
				if banner := conversation.LastError(); banner != "" {
					fmt.Printf("!! %s\n", banner)
					continue
				}

				if conversation.Streaming() {
					fmt.Println()
					continue
				}

				entries := conversation.Transcript().Entries()
				fmt.Println(entries[len(entries)-1].Text)
				printSources(conversation.Transcript().Sources())
			}
		},
	}
}

// runChatCommand handles a /slash command. Returns true when the user quits.
func runChatCommand(conversation *chat.Session, catalog []ragapi.Document, line string) bool {
	fields := strings.Fields(line)
	command, arg := fields[0], ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch command {
	case "/quit", "/exit":
		return true

	case "/stream":
		conversation.SetStreaming(!conversation.Streaming())
		fmt.Printf("Streaming answers: %v\n", conversation.Streaming())

	case "/tag":
		if arg == "" {
			fmt.Println("Usage: /tag <name>")
			break
		}
		conversation.Filters().ToggleTag(arg)
		fmt.Printf("Tags: %s\n", joinOrNone(conversation.Filters().Tags()))

	case "/doc":
		if arg == "" {
			fmt.Println("Usage: /doc <id>")
			break
		}
		conversation.Filters().ToggleDocID(arg)
		fmt.Printf("Documents: %s\n", joinOrNone(conversation.Filters().DocIDs()))

	case "/filters":
		fmt.Printf("Tags: %s\n", joinOrNone(conversation.Filters().Tags()))
		fmt.Printf("Documents: %s\n", joinOrNone(conversation.Filters().DocIDs()))

	case "/catalog":
		if len(catalog) == 0 {
			fmt.Println("No documents available")
			break
		}
		for _, doc := range catalog {
			marker := " "
			if conversation.Filters().HasDocID(doc.ID) {
				marker = "*"
			}
			fmt.Printf("%s %s  %s  [%s]\n", marker, doc.ID, doc.Title, strings.Join(doc.Tags, ","))
		}
		fmt.Printf("Available tags: %s\n", joinOrNone(chat.AvailableTags(catalog)))

	default:
		fmt.Printf("Unknown command %s\n", command)
	}
	return false
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
