package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leaddesk/leaddesk-dashboard/internal/models"
	"github.com/leaddesk/leaddesk-dashboard/internal/services"
)

func (c *cli) leadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List, show, create and edit leads",
	}
	cmd.AddCommand(c.leadsListCmd())
	cmd.AddCommand(c.leadsShowCmd())
	cmd.AddCommand(c.leadsCreateCmd())
	cmd.AddCommand(c.leadsEditCmd())
	return cmd
}

func (c *cli) leadsListCmd() *cobra.Command {
	var search, stage, source string
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of leads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			ctrl := services.NewListController(c.leads, c.pageSize)
			changed, err := ctrl.SetFilters(ctx, models.ParseLeadFilter(search, stage, source))
			if err == nil && !changed {
				err = ctrl.Mount(ctx)
			}
			if err == nil && page > 1 {
				_, err = ctrl.GoToPage(ctx, page)
			}
			if err != nil {
				return err
			}

			printLeadList(c.out, ctrl.View())
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Free-text search")
	cmd.Flags().StringVar(&stage, "stage", "all", "Stage filter: all, new, contacted, qualified, converted, lost")
	cmd.Flags().StringVar(&source, "source", "all", "Source filter: all, website, social_media, referral, event")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func (c *cli) leadsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			detail, err := c.detail.Detail(ctx, args[0])
			if err != nil {
				return err
			}
			printLeadDetail(c.out, detail)
			return nil
		},
	}
}

func (c *cli) leadsCreateCmd() *cobra.Command {
	draft := models.NewLeadDraft()

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a lead",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			result, err := c.form.Submit(ctx, "", draft)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(c.out, result.Message)
			if result.LeadID != "" {
				fmt.Fprintf(c.out, "ID: %s\n", result.LeadID)
			}
			return nil
		},
	}
	bindDraftFlags(cmd.Flags(), &draft)
	return cmd
}

func (c *cli) leadsEditCmd() *cobra.Command {
	var overrides models.LeadDraft

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a lead; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			id := args[0]
			draft, err := c.form.Load(ctx, id)
			if err != nil {
				return err
			}
			applyChanged(cmd.Flags(), &draft, overrides)

			result, err := c.form.Submit(ctx, id, draft)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(c.out, result.Message)
			return nil
		},
	}
	bindDraftFlags(cmd.Flags(), &overrides)
	return cmd
}

func bindDraftFlags(flags *pflag.FlagSet, d *models.LeadDraft) {
	flags.StringVar(&d.Name, "name", d.Name, "Lead name")
	flags.StringVar(&d.Email, "email", d.Email, "Lead email")
	flags.StringVar(&d.Phone, "phone", d.Phone, "Phone number")
	flags.StringVar(&d.Company, "company", d.Company, "Company")
	flags.StringVar(&d.Stage, "stage", d.Stage, "Stage: new, contacted, qualified, converted, lost")
	flags.StringVar(&d.Source, "source", d.Source, "Source: website, social_media, referral, event")
	flags.StringVar(&d.Value, "value", d.Value, "Deal value; empty clears it")
	flags.StringVar(&d.Notes, "notes", d.Notes, "Notes")
}

// applyChanged copies the flags the user actually passed onto the draft.
func applyChanged(flags *pflag.FlagSet, draft *models.LeadDraft, overrides models.LeadDraft) {
	fields := map[string]struct {
		dst *string
		src string
	}{
		"name":    {&draft.Name, overrides.Name},
		"email":   {&draft.Email, overrides.Email},
		"phone":   {&draft.Phone, overrides.Phone},
		"company": {&draft.Company, overrides.Company},
		"stage":   {&draft.Stage, overrides.Stage},
		"source":  {&draft.Source, overrides.Source},
		"value":   {&draft.Value, overrides.Value},
		"notes":   {&draft.Notes, overrides.Notes},
	}
	for name, f := range fields {
		if flags.Changed(name) {
			*f.dst = f.src
		}
	}
}
