package main

import (
	"fmt"

	"github.com/equipo25/ragcli/internal/health"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check API reachability and session validity",
		RunE: func(cmd *cobra.Command, args []string) error {
			checker := health.NewChecker(a.client, a.sessions, a.cfg.API.BaseURL, a.logger)
			report := checker.CheckAll(cmd.Context())

			for _, svc := range report.Services {
				line := fmt.Sprintf("%-8s %s (%dms)", svc.Name, svc.Status, svc.ResponseTime)
				if svc.Error != "" {
					line += "  " + svc.Error
				}
				fmt.Println(line)
			}
			fmt.Printf("Overall: %s\n", report.Status)
			return nil
		},
	}
}
