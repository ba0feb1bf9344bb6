package main

import (
	"fmt"
	"os"

	"github.com/equipo25/ragcli/internal/config"
	"github.com/equipo25/ragcli/internal/documents"
	"github.com/equipo25/ragcli/internal/ragapi"
	"github.com/equipo25/ragcli/internal/session"
	"github.com/equipo25/ragcli/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app bundles the wired collaborators every command needs. Built once in the
// root PersistentPreRunE so subcommands stay declarative.
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	client   *ragapi.Client
	sessions *session.Manager
	docs     *documents.Service
}

func (a *app) init() error {
	// Load environment variables; .env is optional
	_ = godotenv.Load()

	a.logger = utils.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.client = ragapi.NewClient(cfg.API.BaseURL, a.logger)
	a.sessions = session.NewManager(a.client, session.NewStore(cfg.Credentials.Path), a.logger)
	a.docs = documents.NewService(a.client, a.logger)

	a.logger.WithField("base_url", cfg.API.BaseURL).Debug("Client initialized")
	return nil
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "ragcli",
		Short:         "Command-line client for the equipo25 RAG service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newDocsCmd(a),
		newAskCmd(a),
		newChatCmd(a),
		newStatusCmd(a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
