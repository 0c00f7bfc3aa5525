package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/partnerpay/partnerpay/internal/aggregate"
)

func newReportCommand() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Spend reports",
	}
	reportCmd.AddCommand(
		newReportOverviewCommand(),
		newReportMonthlyCommand(),
		newReportPartnersCommand(),
		newReportPartnerCommand(),
	)
	return reportCmd
}

type monthView struct {
	FiscalYear  string          `json:"fiscal_year"`
	MonthNumber int             `json:"month_number"`
	Label       string          `json:"label"`
	Amount      decimal.Decimal `json:"amount"`
}

type partnerSpendView struct {
	PartnerID   string          `json:"partner_id"`
	PartnerName string          `json:"partner_name"`
	Amount      decimal.Decimal `json:"amount"`
}

func monthViews(series []aggregate.MonthPoint) []monthView {
	out := make([]monthView, len(series))
	for i, m := range series {
		out[i] = monthView{FiscalYear: m.FiscalYear, MonthNumber: m.MonthNumber, Label: m.Label, Amount: m.Amount}
	}
	return out
}

func spendViews(spend []aggregate.PartnerSpend) []partnerSpendView {
	out := make([]partnerSpendView, len(spend))
	for i, s := range spend {
		out[i] = partnerSpendView{PartnerID: s.PartnerID, PartnerName: s.PartnerName, Amount: s.Amount}
	}
	return out
}

func printSeries(out io.Writer, series []aggregate.MonthPoint) error {
	if len(series) == 0 {
		fmt.Fprintln(out, "No payments with a decodable invoice period.")
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "MONTH\tAMOUNT")
	for _, m := range series {
		fmt.Fprintf(tw, "%s\t%s\n", m.Label, money(m.Amount))
	}
	return tw.Flush()
}

func printSpend(out io.Writer, spend []aggregate.PartnerSpend) error {
	if len(spend) == 0 {
		fmt.Fprintln(out, "No partner spend.")
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "PARTNER\tAMOUNT")
	for _, s := range spend {
		fmt.Fprintf(tw, "%s\t%s\n", s.PartnerName, money(s.Amount))
	}
	return tw.Flush()
}

func newReportOverviewCommand() *cobra.Command {
	var dir string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Total spend against the player guarantee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			proj, err := openProject(ctx, dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			guarantee, err := proj.cfg.Guarantee()
			if err != nil {
				return err
			}
			svc, err := proj.registry(ctx)
			if err != nil {
				return err
			}
			ps, err := proj.store.ListPayments(ctx, "")
			if err != nil {
				return err
			}

			s := aggregate.Overview(ps, svc.All(), guarantee)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, struct {
					Dashboard    string             `json:"dashboard"`
					TotalSpent   decimal.Decimal    `json:"total_spent"`
					Guarantee    decimal.Decimal    `json:"guarantee"`
					Remaining    decimal.Decimal    `json:"remaining"`
					PaymentCount int                `json:"payment_count"`
					Monthly      []monthView        `json:"monthly"`
					ByPartner    []partnerSpendView `json:"by_partner"`
				}{proj.cfg.Dashboard.Name, s.TotalSpent, s.Guarantee, s.Remaining, s.PaymentCount,
					monthViews(s.Series), spendViews(s.ByPartner)})
			}

			if proj.cfg.Dashboard.Name != "" {
				fmt.Fprintln(out, proj.cfg.Dashboard.Name)
				fmt.Fprintln(out, strings.Repeat("=", len(proj.cfg.Dashboard.Name)))
			}
			tw := newTable(out)
			fmt.Fprintf(tw, "Total spent\t%s\n", money(s.TotalSpent))
			fmt.Fprintf(tw, "Player guarantee\t%s\n", money(s.Guarantee))
			fmt.Fprintf(tw, "Remaining\t%s\n", money(s.Remaining))
			fmt.Fprintf(tw, "Payments\t%d\n", s.PaymentCount)
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(out)
			if err := printSeries(out, s.Series); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return printSpend(out, s.ByPartner)
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newReportMonthlyCommand() *cobra.Command {
	var dir string
	var filters filterFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Spend per fiscal month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			proj, err := openProject(ctx, dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			_, ps, err := filters.loadPayments(ctx, proj)
			if err != nil {
				return err
			}
			series := aggregate.MonthlySeries(ps)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), monthViews(series))
			}
			return printSeries(cmd.OutOrStdout(), series)
		},
	}

	addDirFlag(cmd, &dir)
	filters.register(cmd, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newReportPartnersCommand() *cobra.Command {
	var dir string
	var filters filterFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "partners",
		Short: "Spend per partner, largest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			proj, err := openProject(ctx, dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			svc, ps, err := filters.loadPayments(ctx, proj)
			if err != nil {
				return err
			}
			spend := aggregate.SpendByPartner(ps, svc.All())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), spendViews(spend))
			}
			return printSpend(cmd.OutOrStdout(), spend)
		},
	}

	addDirFlag(cmd, &dir)
	filters.register(cmd, false)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newReportPartnerCommand() *cobra.Command {
	var dir string
	var filters filterFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "partner <id|name>",
		Short: "Spend detail for one partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			proj, err := openProject(ctx, dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			filters.partner = args[0]
			svc, err := proj.registry(ctx)
			if err != nil {
				return err
			}
			c, err := filters.criteria(svc)
			if err != nil {
				return err
			}
			partner, _ := svc.Get(c.PartnerID)
			ps, err := proj.store.ListPayments(ctx, partner.ID)
			if err != nil {
				return err
			}

			d := aggregate.PartnerDetail(partner, ps, c)
			out := cmd.OutOrStdout()
			if asJSON {
				views := make([]paymentView, len(d.Payments))
				for i, p := range d.Payments {
					views[i] = newPaymentView(p, partner.Name)
				}
				return writeJSON(out, struct {
					PartnerID     string           `json:"partner_id"`
					Name          string           `json:"name"`
					IsFlexFund    bool             `json:"is_flex_fund"`
					ContractTotal decimal.Decimal  `json:"contract_total"`
					TotalSpent    decimal.Decimal  `json:"total_spent"`
					Remaining     *decimal.Decimal `json:"remaining,omitempty"`
					PlayerDeals   int              `json:"player_deals"`
					FiscalYears   []string         `json:"fiscal_years"`
					Months        []string         `json:"months"`
					Monthly       []monthView      `json:"monthly"`
					Payments      []paymentView    `json:"payments"`
				}{partner.ID, partner.Name, partner.IsFlexFund, partner.ContractTotal, d.TotalSpent, d.Remaining,
					d.PlayerDeals, d.FiscalYears, d.Months, monthViews(d.Series), views})
			}

			fmt.Fprintln(out, partner.Name)
			tw := newTable(out)
			if partner.IsFlexFund {
				fmt.Fprintf(tw, "Contract\tflex fund\n")
			} else {
				fmt.Fprintf(tw, "Contract\t%s\n", money(partner.ContractTotal))
			}
			fmt.Fprintf(tw, "Spent\t%s\n", money(d.TotalSpent))
			if d.Remaining != nil {
				fmt.Fprintf(tw, "Remaining\t%s\n", money(*d.Remaining))
			}
			fmt.Fprintf(tw, "Player deals\t%d\n", d.PlayerDeals)
			if len(d.FiscalYears) > 0 {
				fmt.Fprintf(tw, "Fiscal years\t%s\n", strings.Join(d.FiscalYears, ", "))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(out)
			if err := printSeries(out, d.Series); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return printPayments(out, d.Payments, svc)
		},
	}

	addDirFlag(cmd, &dir)
	filters.register(cmd, false)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
