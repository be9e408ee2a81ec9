package main

import (
	"github.com/spf13/cobra"
)

func (c *cli) analyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show lead counters and the stage breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			view, err := c.analytics.Load(ctx)
			if err != nil {
				return err
			}
			printAnalytics(c.out, view)
			return nil
		},
	}
}
