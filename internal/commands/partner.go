package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/partnerpay/partnerpay/internal/aggregate"
	"github.com/partnerpay/partnerpay/internal/model"
	"github.com/partnerpay/partnerpay/internal/partners"
)

func newPartnerCommand() *cobra.Command {
	partnerCmd := &cobra.Command{
		Use:   "partner",
		Short: "Manage the partner registry",
	}
	partnerCmd.AddCommand(
		newPartnerAddCommand(),
		newPartnerListCommand(),
		newPartnerUpdateCommand(),
		newPartnerRemoveCommand(),
		newPartnerImportCommand(),
		newPartnerExportCommand(),
	)
	return partnerCmd
}

func parseContract(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing contract total %q: %w", s, err)
	}
	return d, nil
}

func newPartnerAddCommand() *cobra.Command {
	var dir, contract string
	var flex bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := parseContract(contract)
			if err != nil {
				return err
			}

			proj, err := openProject(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			p, err := proj.store.CreatePartner(cmd.Context(), model.Partner{
				Name:          args[0],
				ContractTotal: total,
				IsFlexFund:    flex,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added partner %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().StringVar(&contract, "contract", "0", "contract total")
	cmd.Flags().BoolVar(&flex, "flex", false, "flex-fund partner (no spending ceiling)")
	return cmd
}

type partnerView struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ContractTotal decimal.Decimal `json:"contract_total"`
	IsFlexFund    bool            `json:"is_flex_fund"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	Payments      int             `json:"payments"`
}

func newPartnerListCommand() *cobra.Command {
	var dir string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List partners with their spend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			proj, err := openProject(ctx, dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			registry, err := proj.store.ListPartners(ctx)
			if err != nil {
				return err
			}
			ps, err := proj.store.ListPayments(ctx, "")
			if err != nil {
				return err
			}

			totals := aggregate.PartnerTotals(ps, registry)
			views := make([]partnerView, len(totals))
			for i, t := range totals {
				views[i] = partnerView{
					ID:            t.Partner.ID,
					Name:          t.Partner.Name,
					ContractTotal: t.Partner.ContractTotal,
					IsFlexFund:    t.Partner.IsFlexFund,
					TotalSpent:    t.TotalSpent,
					Payments:      t.PaymentCount,
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(out, "No partners.")
				return nil
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tNAME\tCONTRACT\tSPENT\tPAYMENTS")
			for _, v := range views {
				contract := money(v.ContractTotal)
				if v.IsFlexFund {
					contract = "flex"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", v.ID, v.Name, contract, money(v.TotalSpent), v.Payments)
			}
			return tw.Flush()
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newPartnerUpdateCommand() *cobra.Command {
	var dir, name, contract string
	var flex bool

	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Update a partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			proj, err := openProject(ctx, dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			svc, id, err := proj.resolvePartner(ctx, args[0])
			if err != nil {
				return err
			}
			p, _ := svc.Get(id)

			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("contract") {
				if p.ContractTotal, err = parseContract(contract); err != nil {
					return err
				}
			}
			if flags.Changed("flex") {
				p.IsFlexFund = flex
			}

			updated, err := proj.store.UpdatePartner(ctx, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated partner %s (%s)\n", updated.Name, updated.ID)
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&contract, "contract", "", "new contract total")
	cmd.Flags().BoolVar(&flex, "flex", false, "flex-fund partner")
	return cmd
}

func newPartnerRemoveCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "remove <id|name>",
		Short: "Remove a partner that has no payments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			proj, err := openProject(ctx, dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			svc, id, err := proj.resolvePartner(ctx, args[0])
			if err != nil {
				return err
			}
			if err := proj.store.DeletePartner(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed partner %s\n", svc.Name(id))
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	return cmd
}

func newPartnerImportCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Add partners from a registry CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			incoming, err := partners.ReadPartners(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			proj, err := openProject(ctx, dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			svc, err := proj.registry(ctx)
			if err != nil {
				return err
			}

			added, skipped := 0, 0
			for _, p := range incoming {
				if _, exists := svc.Resolve(p.Name); exists {
					skipped++
					continue
				}
				if _, err := proj.store.CreatePartner(ctx, p); err != nil {
					return err
				}
				added++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d partners, skipped %d already registered\n", added, skipped)
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	return cmd
}

func newPartnerExportCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Write the partner registry as CSV (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			proj, err := openProject(ctx, dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			registry, err := proj.store.ListPartners(ctx)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return partners.WritePartners(cmd.OutOrStdout(), registry)
			}
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}
			defer f.Close()
			if err := partners.WritePartners(f, registry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d partners to %s\n", len(registry), args[0])
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	return cmd
}
