package uploadlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Outcome classifies how an upload ended.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeDryRun     Outcome = "dry_run"
	OutcomeNoPayments Outcome = "no_payments"
	OutcomeLoadError  Outcome = "load_error"
	OutcomeStoreError Outcome = "store_error"
)

// Entry is one row in the upload log.
type Entry struct {
	Timestamp       time.Time
	File            string
	SheetsScanned   int
	SheetsProcessed int
	Payments        int
	Unmatched       int
	Outcome         Outcome
	Message         string
}

// Header is the CSV header for upload-log.csv.
const Header = "timestamp,file,sheets_scanned,sheets_processed,payments,unmatched,outcome,message"

const (
	numFields          = 8
	logDir             = "logs"
	logFile            = "logs/upload-log.csv"
	colTimestamp       = 0
	colFile            = 1
	colSheetsScanned   = 2
	colSheetsProcessed = 3
	colPayments        = 4
	colUnmatched       = 5
	colOutcome         = 6
	colMessage         = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colSheetsScanned] = strconv.Itoa(e.SheetsScanned)
	row[colSheetsProcessed] = strconv.Itoa(e.SheetsProcessed)
	row[colPayments] = strconv.Itoa(e.Payments)
	row[colUnmatched] = strconv.Itoa(e.Unmatched)
	row[colOutcome] = string(e.Outcome)
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 0, 4)
	for _, col := range []int{colSheetsScanned, colSheetsProcessed, colPayments, colUnmatched} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts = append(counts, n)
	}

	return Entry{
		Timestamp:       ts,
		File:            record[colFile],
		SheetsScanned:   counts[0],
		SheetsProcessed: counts[1],
		Payments:        counts[2],
		Unmatched:       counts[3],
		Outcome:         Outcome(record[colOutcome]),
		Message:         record[colMessage],
	}, nil
}

// Append writes entries to <root>/logs/upload-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening upload log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/upload-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening upload log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading upload log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
