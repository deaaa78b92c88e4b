package main

import (
	"github.com/spf13/cobra"

	"sheetsight/internal/templates"
	api "sheetsight/pkg/contracts/api/v1"
)

func (c *cli) templatesCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the report templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := templates.List()
			out := api.TemplatesResponse{
				Templates: make([]api.TemplateSummary, 0, len(list)),
				Count:     len(list),
			}
			for _, t := range list {
				out.Templates = append(out.Templates, api.TemplateSummary{
					ID:              t.ID,
					Name:            t.Name,
					Description:     t.Description,
					RequiredColumns: t.RequiredColumns,
				})
			}
			return writeJSON(cmd.OutOrStdout(), out, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}
