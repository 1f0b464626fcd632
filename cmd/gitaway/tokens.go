package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"git-away/internal/application/dto"
)

func newTokensCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Show provider connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}

			connections, err := c.ListConnections(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list connections: %w", err)
			}
			if opts.outputJSON {
				return writeJSON(cmd.OutOrStdout(), connections)
			}
			renderConnections(cmd.OutOrStdout(), connections.Connections)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "scope",
		Short: "Inspect the stored GitHub token scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}

			scope, err := c.TokenScope(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read token scope: %w", err)
			}
			if opts.outputJSON {
				return writeJSON(cmd.OutOrStdout(), scope)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Field", "Value"})
			table.Append([]string{"Scope", scope.Scope})
			table.Append([]string{"Expected scope", scope.ExpectedScope})
			table.Append([]string{"Token prefix", scope.TokenPrefix})
			table.Append([]string{"Created", scope.CreatedAt.Format("2006-01-02 15:04")})
			table.Render()
			return nil
		},
	})
	return cmd
}

func renderConnections(w io.Writer, connections []*dto.ConnectionResponse) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Provider", "Status", "Scope", "Access Token", "Expires"})

	for _, conn := range connections {
		status := "Not connected"
		if conn.Connected {
			status = "Connected"
		} else if !conn.Enabled {
			status = "Not configured"
		}

		expires := ""
		if conn.ExpiresAt != nil {
			expires = conn.ExpiresAt.Format("2006-01-02 15:04")
		}
		table.Append([]string{conn.DisplayName, status, conn.Scope, conn.AccessTokenPrefix, expires})
	}
	table.Render()
}
