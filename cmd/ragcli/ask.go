package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/equipo25/ragcli/internal/chat"
	"github.com/equipo25/ragcli/internal/ragapi"
	"github.com/spf13/cobra"
)

func newAskCmd(a *app) *cobra.Command {
	var stream bool
	var tags, docIDs []string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question against the indexed documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Require()
			if err != nil {
				return err
			}

			conversation := chat.NewSession(a.client, sess.Token, a.logger)
			conversation.SetStreaming(stream)
			for _, tag := range tags {
				conversation.Filters().ToggleTag(tag)
			}
			for _, id := range docIDs {
				conversation.Filters().ToggleDocID(id)
			}

			if stream {
				conversation.OnChunk(func(text string) {
					fmt.Print(text)
				})
			}

			question := strings.Join(args, " ")
			if err := conversation.Submit(cmd.Context(), question); err != nil {
				return err
			}
			if banner := conversation.LastError(); banner != "" {
				return fmt.Errorf("%s", banner)
			}

			if stream {
				fmt.Println()
				return nil
			}

			entries := conversation.Transcript().Entries()
			fmt.Println(entries[len(entries)-1].Text)
			printSources(conversation.Transcript().Sources())
			return nil
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "stream the answer as it is generated")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "restrict retrieval to documents with this tag (repeatable)")
	cmd.Flags().StringArrayVar(&docIDs, "doc", nil, "restrict retrieval to this document id (repeatable)")
	return cmd
}

func printSources(sources []ragapi.SourceCitation) {
	if len(sources) == 0 {
		return
	}

	fmt.Println("\nSources:")
	for _, src := range sources {
		fmt.Printf("  - %s", src.Title)
		if src.HasScore {
			fmt.Printf(" (relevance %d%%)", int(math.Round(src.Score*100)))
		}
		fmt.Println()
		if src.Snippet != "" {
			fmt.Printf("    %s\n", src.Snippet)
		}
	}
}
