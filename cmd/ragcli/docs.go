package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/equipo25/ragcli/internal/documents"
	"github.com/equipo25/ragcli/internal/ragapi"
	"github.com/spf13/cobra"
)

func newDocsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage documents in the retrieval index",
	}
	cmd.AddCommand(
		newDocsListCmd(a),
		newDocsUploadCmd(a),
		newDocsUpdateCmd(a),
		newDocsDeleteCmd(a),
	)
	return cmd
}

func newDocsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List indexed documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Require()
			if err != nil {
				return err
			}

			docs, err := a.docs.List(cmd.Context(), sess.Token)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Println("No documents indexed")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tTAGS")
			for _, doc := range docs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					doc.ID, doc.Title, doc.Status, strings.Join(doc.Tags, ","))
			}
			return w.Flush()
		},
	}
}

func newDocsUploadCmd(a *app) *cobra.Command {
	var title, tags string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document (PDF or text)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Require()
			if err != nil {
				return err
			}

			doc, err := a.docs.Upload(cmd.Context(), sess.Token, args[0], title, tags)
			if err != nil {
				return err
			}

			fmt.Printf("Uploaded %s (id %s)\n", doc.Title, doc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "document title (defaults to the filename)")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	return cmd
}

func newDocsUpdateCmd(a *app) *cobra.Command {
	var description, status, roles string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update document metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Require()
			if err != nil {
				return err
			}

			req := ragapi.DocumentUpdateRequest{
				Description: description,
				Status:      status,
				Roles:       documents.SplitTags(roles),
			}
			if err := a.docs.Update(cmd.Context(), sess.Token, args[0], req); err != nil {
				return err
			}

			fmt.Println("Document updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "document description")
	cmd.Flags().StringVar(&status, "status", "", "document status")
	cmd.Flags().StringVar(&roles, "roles", "", "comma-separated allowed roles")
	return cmd
}

func newDocsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document from the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Require()
			if err != nil {
				return err
			}

			if err := a.docs.Delete(cmd.Context(), sess.Token, args[0]); err != nil {
				return err
			}

			fmt.Println("Document deleted")
			return nil
		},
	}
}
