// Command formatcheck finds rarely-appearing formats in the string columns
// of a dataset.
//
// It loads columns from a local file (CSV, JSON, or an HTML table) or from a
// SQL database, skeletonizes every value under an ordered list of format
// patterns, and reports values whose shape is suspiciously rare next to the
// dominant shapes of the same column. Typical hits are a handful of
// "31.3.2011" dates in a column of "2011-11-07", or a few unpadded invoice
// ids in a zero-padded column.
//
// Input selection
//
//   - -input: path of a local file, or "-" for stdin.
//   - -format: csv|json|html. Empty means sniff from the first
//     non-whitespace byte ('<' html, '{' or '[' json, otherwise csv).
//   - SQL mode instead of -input: -backend postgres|mssql|sqlite with -dsn
//     and -table.
//
// Output modes
//
//   - Default: a human-readable text report on stdout.
//   - -json: the raw findings as JSON (column -> pattern -> finding).
//
// # DSN overrides
//
// In containerized environments operators need to point the check at a real
// database without editing scripts. The DSN therefore resolves in strict
// precedence order:
//  1. -dsn flag
//  2. DSN environment variable
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"formatcheck/internal/analyzer"
	"formatcheck/internal/dataset"
	"formatcheck/internal/dataset/source"
	"formatcheck/internal/metrics"
	"formatcheck/internal/metrics/datadog"
	"formatcheck/internal/report"

	_ "formatcheck/internal/dataset/source/mssql"
	_ "formatcheck/internal/dataset/source/postgres"
	_ "formatcheck/internal/dataset/source/sqlite"
)

func main() {
	var (
		// flagInput is the local input file. "-" reads stdin. Mutually
		// exclusive with -backend; exactly one of the two must be set.
		flagInput = flag.String("input", "", "Input file path (CSV, JSON, or HTML); \"-\" for stdin")

		// flagFormat forces the input format. When empty, the format is
		// sniffed from the first non-whitespace byte of the input.
		flagFormat = flag.String("format", "", "Input format: csv|json|html (default: sniff)")

		// flagSelector is the goquery selector for the HTML table to read.
		// Ignored for non-HTML inputs.
		flagSelector = flag.String("selector", "table", "CSS selector of the HTML table to read (html input only)")

		// flagCharset names the byte encoding of CSV input. UTF-8 inputs need
		// no value; legacy exports commonly need latin1 or windows-1252.
		flagCharset = flag.String("charset", "", "CSV byte encoding: latin1|latin2|windows-1250|windows-1252 (default UTF-8)")

		// flagComma is the CSV field delimiter.
		flagComma = flag.String("comma", ",", "CSV field delimiter (single character)")

		// flagBackend selects a SQL source instead of a file. The named
		// backend must be one of the registered kinds.
		flagBackend = flag.String("backend", "", "SQL source backend: postgres|mssql|sqlite (instead of -input)")

		// flagDSN is the SQL source DSN. Highest-precedence override; the DSN
		// environment variable is consulted when empty.
		flagDSN = flag.String("dsn", "", "SQL source DSN (falls back to the DSN env var)")

		// flagTable is the table to sample in SQL mode.
		flagTable = flag.String("table", "", "Table to sample (SQL mode)")

		// flagLimit caps the number of rows fetched in SQL mode. Zero means
		// no limit.
		flagLimit = flag.Int("limit", 10000, "Max rows to fetch in SQL mode; 0 = unlimited")

		// flagColumns restricts analysis to the named columns. Empty means
		// every column in the input.
		flagColumns = flag.String("columns", "", "Comma-separated columns to analyze (default: all)")

		// flagThreshold is the sharp-drop sensitivity: a format is rare when
		// its count falls below threshold * the next more frequent format.
		flagThreshold = flag.Float64("threshold", 0.05, "Rarity threshold in (0,1]")

		// flagMatch controls whether a value flagged by one pattern can be
		// flagged again by a later, broader pattern.
		flagMatch = flag.String("match", "first", "Pattern match mode: first|all")

		// flagWorkers bounds column-level parallelism. Zero means GOMAXPROCS.
		flagWorkers = flag.Int("workers", 0, "Concurrent column workers; 0 = GOMAXPROCS")

		// flagJSON emits raw findings as JSON instead of the text report.
		flagJSON = flag.Bool("json", false, "Emit findings as JSON instead of a text report")

		// flagPretty controls JSON indentation. Ignored without -json.
		flagPretty = flag.Bool("pretty", true, "Pretty-print JSON output")

		// flagTimeout bounds the whole run, including the SQL fetch.
		flagTimeout = flag.Duration("timeout", 60*time.Second, "Overall run timeout")

		// flagDDMetrics enables the Datadog metrics backend. Credentials come
		// from the standard DD_API_KEY / DD_SITE environment variables.
		flagDDMetrics = flag.Bool("dd-metrics", false, "Publish run metrics to Datadog (DD_API_KEY env)")

		// flagDDTags adds extra Datadog tags, e.g. "env:prod,team:data".
		flagDDTags = flag.String("dd-tags", "", "Extra Datadog tags as k:v,k:v (with -dd-metrics)")
	)
	flag.Parse()

	input := strings.TrimSpace(*flagInput)
	backend := strings.TrimSpace(*flagBackend)
	if (input == "") == (backend == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -input or -backend is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()

	columns := splitList(*flagColumns)

	var (
		ds  *dataset.Dataset
		err error
	)
	if input != "" {
		ds, err = loadFile(input, *flagFormat, *flagSelector, *flagCharset, *flagComma)
	} else {
		ds, err = loadSQL(ctx, sqlConfig(backend, strings.TrimSpace(*flagDSN), *flagTable, columns, *flagLimit))
	}
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	var backendMetrics metrics.Backend = metrics.Nop{}
	if *flagDDMetrics {
		// Background context: the final flush in Close must outlive the run
		// timeout.
		dd, err := datadog.NewBackend(context.Background(), datadog.Options{
			Tags: datadog.ParseTagsCSV(*flagDDTags),
		})
		if err != nil {
			log.Fatalf("datadog: %v", err)
		}
		defer func() {
			if err := dd.Close(); err != nil {
				log.Printf("datadog flush: %v", err)
			}
		}()
		backendMetrics = dd
	}

	results, err := analyzer.AnalyzeDataset(ctx, ds, columns, analyzer.Options{
		RarityThreshold: *flagThreshold,
		MatchMode:       analyzer.MatchMode(strings.ToLower(strings.TrimSpace(*flagMatch))),
		Workers:         *flagWorkers,
		Metrics:         backendMetrics,
	})
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	if *flagJSON {
		enc := json.NewEncoder(os.Stdout)
		if *flagPretty {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(results); err != nil {
			log.Fatalf("encode results: %v", err)
		}
		return
	}

	order := columns
	if order == nil {
		order = ds.Columns()
	}
	fmt.Fprintln(os.Stdout, report.Text(results, order))
}

// loadFile reads a local file (or stdin for "-") and dispatches on format.
func loadFile(path, format, selector, charset, comma string) (*dataset.Dataset, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = sniffFormat(data)
	}

	switch format {
	case "csv":
		delim, err := commaRune(comma)
		if err != nil {
			return nil, err
		}
		return dataset.LoadCSV(strings.NewReader(string(data)), dataset.CSVOptions{Comma: delim, Charset: charset})
	case "json":
		return dataset.LoadJSON(strings.NewReader(string(data)))
	case "html":
		return dataset.LoadHTMLTable(strings.NewReader(string(data)), selector)
	default:
		return nil, fmt.Errorf("unsupported format %q (want csv, json, or html)", format)
	}
}

// sqlConfig builds the source configuration from CLI inputs. Requested
// columns are pushed down into the query so the backends project instead of
// fetching SELECT * and filtering later.
func sqlConfig(backend, flagDSN, table string, columns []string, limit int) source.Config {
	return source.Config{
		Kind:    normalizeBackend(backend),
		DSN:     resolveDSN(flagDSN),
		Table:   table,
		Columns: columns,
		Limit:   limit,
	}
}

// loadSQL opens the configured source, fetches once, and closes it.
func loadSQL(ctx context.Context, cfg source.Config) (*dataset.Dataset, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("missing DSN: set -dsn or the DSN env var")
	}

	src, err := source.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return src.FetchColumns(ctx)
}

// resolveDSN applies the documented precedence: -dsn flag, then DSN env var.
func resolveDSN(flagDSN string) string {
	if flagDSN != "" {
		return flagDSN
	}
	return strings.TrimSpace(os.Getenv("DSN"))
}

// normalizeBackend converts a user-specified backend string into one of the
// registered canonical kinds.
func normalizeBackend(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql":
		return "postgres"
	case "mssql", "sqlserver":
		return "mssql"
	case "sqlite":
		return "sqlite"
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}

// sniffFormat guesses the input format from the first non-whitespace byte.
// '<' means an HTML document, '{' or '[' a JSON document, anything else CSV.
func sniffFormat(data []byte) string {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '<':
			return "html"
		case '{', '[':
			return "json"
		default:
			return "csv"
		}
	}
	return "csv"
}

// commaRune validates the -comma flag. "\t" is accepted for TSV input.
func commaRune(s string) (rune, error) {
	if s == "\\t" || s == "\t" {
		return '\t', nil
	}
	rs := []rune(s)
	if len(rs) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return rs[0], nil
}

// splitList parses a comma-separated flag value, dropping empty segments.
// Returns nil for an empty flag so callers can distinguish "all columns".
func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
