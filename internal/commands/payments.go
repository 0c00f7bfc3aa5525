package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/partnerpay/partnerpay/internal/aggregate"
	"github.com/partnerpay/partnerpay/internal/invoice"
	"github.com/partnerpay/partnerpay/internal/model"
	"github.com/partnerpay/partnerpay/internal/partners"
	"github.com/partnerpay/partnerpay/internal/payments"
)

func newPaymentsCommand() *cobra.Command {
	paymentsCmd := &cobra.Command{
		Use:   "payments",
		Short: "Browse and manage stored payments",
	}
	paymentsCmd.AddCommand(
		newPaymentsListCommand(),
		newPaymentsDeleteCommand(),
		newPaymentsClearCommand(),
		newPaymentsExportCommand(),
	)
	return paymentsCmd
}

// filterFlags are the payment filters shared by list, export and report.
type filterFlags struct {
	partner string
	player  string
	month   string
	year    string
}

func (f *filterFlags) register(cmd *cobra.Command, withPartner bool) {
	if withPartner {
		cmd.Flags().StringVar(&f.partner, "partner", "", "partner id or name")
	}
	cmd.Flags().StringVar(&f.player, "player", "", "player name contains")
	cmd.Flags().StringVar(&f.month, "month", "", "month name or code (e.g. January, jan)")
	cmd.Flags().StringVar(&f.year, "year", "", "fiscal year (e.g. 2024 or FY2024)")
}

func (f *filterFlags) criteria(svc *partners.Service) (aggregate.Criteria, error) {
	c := aggregate.Criteria{Player: f.player, Month: f.month, FiscalYear: f.year}
	if f.month != "" && f.month != "Unknown" {
		if _, ok := invoice.MonthCode(f.month); !ok {
			return c, fmt.Errorf("unknown month %q", f.month)
		}
	}
	if f.partner != "" {
		p, ok := svc.Resolve(f.partner)
		if !ok {
			return c, fmt.Errorf("unknown partner %q", f.partner)
		}
		c.PartnerID = p.ID
	}
	return c, nil
}

// loadPayments returns the registry and the payments matching the filters.
func (f *filterFlags) loadPayments(ctx context.Context, proj *project) (*partners.Service, []model.Payment, error) {
	svc, err := proj.registry(ctx)
	if err != nil {
		return nil, nil, err
	}
	c, err := f.criteria(svc)
	if err != nil {
		return nil, nil, err
	}
	ps, err := proj.store.ListPayments(ctx, c.PartnerID)
	if err != nil {
		return nil, nil, err
	}
	return svc, aggregate.Filter(ps, c), nil
}

type paymentView struct {
	ID                string          `json:"id"`
	PartnerID         string          `json:"partner_id"`
	PartnerName       string          `json:"partner_name"`
	PlayerName        string          `json:"player_name"`
	Amount            decimal.Decimal `json:"amount"`
	TotalPlayerAmount decimal.Decimal `json:"total_player_amount"`
	InvoiceCode       string          `json:"invoice_code"`
	FiscalYear        string          `json:"fiscal_year"`
	Month             string          `json:"month"`
	DealType          string          `json:"deal_type,omitempty"`
	DealDetail        string          `json:"deal_detail,omitempty"`
	BatchName         string          `json:"batch_name,omitempty"`
	DealID            string          `json:"deal_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func newPaymentView(p model.Payment, partnerName string) paymentView {
	period := invoice.Decode(p.InvoiceCode)
	return paymentView{
		ID:                p.ID,
		PartnerID:         p.PartnerID,
		PartnerName:       partnerName,
		PlayerName:        p.PlayerName,
		Amount:            p.Amount,
		TotalPlayerAmount: p.TotalPlayerAmount,
		InvoiceCode:       p.InvoiceCode,
		FiscalYear:        period.FiscalYear,
		Month:             period.Month,
		DealType:          p.DealType,
		DealDetail:        p.DealDetail,
		BatchName:         p.BatchName,
		DealID:            p.DealID,
		CreatedAt:         p.CreatedAt,
	}
}

func printPayments(out io.Writer, ps []model.Payment, names payments.PartnerNamer) error {
	if len(ps) == 0 {
		fmt.Fprintln(out, "No payments.")
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tPARTNER\tPLAYER\tAMOUNT\tINVOICE\tPERIOD\tDEAL")
	for _, p := range ps {
		period := invoice.Decode(p.InvoiceCode)
		label := period.Month
		if period.Known() {
			label = invoice.ShortMonth(period.MonthNumber) + " " + period.DisplayYear
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, names.Name(p.PartnerID), p.PlayerName, money(p.Amount),
			orDash(p.InvoiceCode), label, orDash(p.DealType))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d payments, total %s\n", len(ps), money(aggregate.TotalSpent(ps)))
	return nil
}

func newPaymentsListCommand() *cobra.Command {
	var dir string
	var filters filterFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payments",
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

			out := cmd.OutOrStdout()
			if asJSON {
				views := make([]paymentView, len(ps))
				for i, p := range ps {
					views[i] = newPaymentView(p, svc.Name(p.PartnerID))
				}
				return writeJSON(out, views)
			}
			return printPayments(out, ps, svc)
		},
	}

	addDirFlag(cmd, &dir)
	filters.register(cmd, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newPaymentsDeleteCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete payments by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			proj, err := openProject(ctx, dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			for _, id := range args {
				if err := proj.store.DeletePayment(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted payment %s\n", id)
			}
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	return cmd
}

func newPaymentsClearCommand() *cobra.Command {
	var dir string
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored payment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all payments without --yes")
			}
			ctx := cmd.Context()
			proj, err := openProject(ctx, dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			n, err := proj.store.ClearPayments(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d payments\n", n)
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all payments")
	return cmd
}

func newPaymentsExportCommand() *cobra.Command {
	var dir string
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Export payments as CSV (default: exports/payments-<timestamp>.csv)",
		Args:  cobra.MaximumNArgs(1),
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

			path := filepath.Join(proj.root, "exports", "payments-"+time.Now().Format("20060102-150405")+".csv")
			if len(args) > 0 {
				path = args[0]
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating export dir: %w", err)
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer f.Close()

			if err := payments.WritePayments(f, ps, svc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d payments to %s\n", len(ps), path)
			return nil
		},
	}

	addDirFlag(cmd, &dir)
	filters.register(cmd, true)
	return cmd
}
