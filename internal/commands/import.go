package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/partnerpay/partnerpay/internal/config"
	"github.com/partnerpay/partnerpay/internal/importer"
	"github.com/partnerpay/partnerpay/internal/log"
	"github.com/partnerpay/partnerpay/internal/model"
	"github.com/partnerpay/partnerpay/internal/payments"
	"github.com/partnerpay/partnerpay/internal/sheet"
	"github.com/partnerpay/partnerpay/internal/uploadlog"
)

// errImportIncomplete is returned when at least one file yielded nothing.
var errImportIncomplete = errors.New("some files were not imported")

type importOptions struct {
	dir       string
	replace   bool
	dryRun    bool
	showSkips bool
}

func newImportCommand() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Ingest payment workbooks (default: every file in import/)",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := openProject(cmd.Context(), opts.dir)
			if err != nil {
				return err
			}
			defer proj.Close()

			return runImport(cmd.Context(), cmd.OutOrStdout(), proj, args, opts)
		},
	}

	addDirFlag(cmd, &opts.dir)
	cmd.Flags().BoolVar(&opts.replace, "replace", false, "replace all stored payments instead of appending")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and report without saving")
	cmd.Flags().BoolVar(&opts.showSkips, "show-skips", false, "list every excluded row")
	return cmd
}

// upload is one workbook's path through the import.
type upload struct {
	name    string
	path    string
	inbox   bool // lives in import/ and moves to processed/ on success
	report  *importer.Report
	loadErr error
}

func runImport(ctx context.Context, out io.Writer, proj *project, args []string, opts importOptions) error {
	reg := importer.DefaultRegistry()

	uploads, err := collectUploads(proj.root, reg, args)
	if err != nil {
		return err
	}
	if len(uploads) == 0 {
		fmt.Fprintln(out, "Nothing to import.")
		return nil
	}

	svc, err := proj.registry(ctx)
	if err != nil {
		return err
	}
	matcher, err := proj.matcher()
	if err != nil {
		return err
	}
	ingestor := importer.Ingestor{
		Matcher: matcher,
		Logger:  proj.logger.WithComponent(log.ComponentImporter),
	}

	// Workbooks are independent; load and ingest them in parallel, keep file order.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(proj.cfg.Import.Workers)
	for i := range uploads {
		u := &uploads[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			wb, err := reg.LoadFile(u.path)
			if err != nil {
				u.loadErr = err
				proj.logger.Warn("workbook not loaded",
					log.FieldOperation, log.OpLoad, log.FieldFile, u.name, log.FieldError, err)
				return nil
			}
			u.report = ingestor.Ingest(wb, svc.All())
			proj.logger.Info("workbook ingested",
				log.FieldOperation, log.OpIngest, log.FieldFile, u.name, log.FieldCount, len(u.report.Payments))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var batch []model.Payment
	incomplete := false
	for _, u := range uploads {
		printUpload(out, u, opts.showSkips)
		if u.loadErr != nil || u.report.Err() != nil {
			incomplete = true
			continue
		}
		batch = append(batch, u.report.Payments...)
	}

	now := time.Now()
	if len(batch) == 0 {
		if err := logUploads(proj.root, uploads, now, false, nil); err != nil {
			proj.logger.Warn("upload log not written", log.FieldError, err)
		}
		return importer.ErrNoValidPayments
	}

	if opts.dryRun {
		fmt.Fprintf(out, "Dry run: %d payments not saved\n", len(batch))
		if err := logUploads(proj.root, uploads, now, true, nil); err != nil {
			proj.logger.Warn("upload log not written", log.FieldError, err)
		}
		return nil
	}

	saveErr := save(ctx, proj, svc, batch, opts.replace)
	if err := logUploads(proj.root, uploads, now, false, saveErr); err != nil {
		proj.logger.Warn("upload log not written", log.FieldError, err)
	}
	if saveErr != nil {
		return fmt.Errorf("error saving payments: %w", saveErr)
	}

	for _, u := range uploads {
		if !u.inbox || u.report == nil || u.report.Err() != nil {
			continue
		}
		if err := importer.MarkProcessed(proj.root, u.name); err != nil {
			proj.logger.Warn("file not moved to processed", log.FieldFile, u.name, log.FieldError, err)
		}
	}

	fmt.Fprintf(out, "Saved %d payments\n", len(batch))
	if incomplete {
		return errImportIncomplete
	}
	return nil
}

func save(ctx context.Context, proj *project, checker payments.PartnerChecker, batch []model.Payment, replace bool) error {
	if err := payments.Check(batch, checker); err != nil {
		return err
	}
	mode := proj.cfg.Import.Mode
	if replace {
		mode = config.ModeReplace
	}
	proj.logger.Info("saving payments", log.FieldMode, mode, log.FieldCount, len(batch))
	if mode == config.ModeReplace {
		_, err := proj.store.ReplacePayments(ctx, batch)
		return err
	}
	_, err := proj.store.AppendPayments(ctx, batch)
	return err
}

// collectUploads resolves the named files, or scans import/ when none are given.
func collectUploads(root string, reg *importer.Registry, args []string) ([]upload, error) {
	if len(args) == 0 {
		files, err := importer.Scan(root, reg)
		if err != nil {
			return nil, err
		}
		uploads := make([]upload, len(files))
		for i, f := range files {
			uploads[i] = upload{name: f.Name, path: f.Path, inbox: true}
		}
		slices.SortFunc(uploads, func(a, b upload) int { return strings.Compare(a.name, b.name) })
		return uploads, nil
	}

	inbox := filepath.Join(root, "import")
	uploads := make([]upload, 0, len(args))
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		if !reg.Supports(path) {
			return nil, fmt.Errorf("unsupported file type: %s", arg)
		}
		uploads = append(uploads, upload{
			name:  filepath.Base(path),
			path:  path,
			inbox: filepath.Dir(path) == inbox,
		})
	}
	return uploads, nil
}

func printUpload(out io.Writer, u upload, showSkips bool) {
	if u.loadErr != nil {
		fmt.Fprintf(out, "%s: %v\n", u.name, u.loadErr)
		return
	}
	r := u.report
	fmt.Fprintf(out, "%s: %s\n", u.name, r.Message())

	for _, s := range r.Sheets {
		if !s.Accepted {
			fmt.Fprintf(out, "  sheet %q skipped: %s\n", s.Name, s.Reason)
		}
	}

	if len(r.Skips) == 0 {
		return
	}
	counts := r.SkipCounts()
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, string(reason))
	}
	slices.Sort(reasons)
	parts := make([]string, len(reasons))
	for i, reason := range reasons {
		parts[i] = fmt.Sprintf("%s %d", reason, counts[sheet.Reason(reason)])
	}
	fmt.Fprintf(out, "  excluded %d rows (%s)\n", len(r.Skips), strings.Join(parts, ", "))

	if showSkips {
		for _, s := range r.Skips {
			fmt.Fprintf(out, "    %s row %d: %s\n", s.Sheet, s.Row, s.Reason)
		}
	}
}

func logUploads(root string, uploads []upload, now time.Time, dryRun bool, saveErr error) error {
	entries := make([]uploadlog.Entry, 0, len(uploads))
	for _, u := range uploads {
		e := uploadlog.Entry{Timestamp: now, File: u.name}
		switch {
		case u.loadErr != nil:
			e.Outcome = uploadlog.OutcomeLoadError
			e.Message = u.loadErr.Error()
		default:
			r := u.report
			e.SheetsScanned = r.SheetsScanned
			e.SheetsProcessed = r.SheetsProcessed
			e.Payments = len(r.Payments)
			e.Unmatched = r.Unmatched
			e.Message = r.Message()
			switch {
			case r.Err() != nil:
				e.Outcome = uploadlog.OutcomeNoPayments
			case saveErr != nil:
				e.Outcome = uploadlog.OutcomeStoreError
				e.Message = "error saving payments: " + saveErr.Error()
			case dryRun:
				e.Outcome = uploadlog.OutcomeDryRun
			default:
				e.Outcome = uploadlog.OutcomeSuccess
			}
		}
		entries = append(entries, e)
	}
	return uploadlog.Append(root, entries)
}
