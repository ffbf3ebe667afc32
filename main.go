package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/statementworks/comdirect-parser/internal/api"
	"github.com/statementworks/comdirect-parser/internal/extractor"
	"github.com/statementworks/comdirect-parser/internal/logger"
	"github.com/statementworks/comdirect-parser/internal/parser"
	"github.com/statementworks/comdirect-parser/internal/writer"
)

const version = "1.1.0"

func main() {
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	headerFlag := flag.Bool("header", true, "Include report metadata header rows in CSV")
	serveFlag := flag.String("serve", "", "Start the HTTP API on this address (e.g. :8080) instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `comdirect Statement PDF Converter

Recovers structured account and transaction data from comdirect
account-statement PDFs and exports it as CSV.

Usage:
  comdirect-parser [flags] <statement.pdf> [statement2.pdf ...]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert one statement
  comdirect-parser Finanzreport.pdf

  # Custom output path
  comdirect-parser --output=transactions.csv Finanzreport.pdf

  # Convert a series of statements; balance checkpoints are
  # cross-checked between the documents
  comdirect-parser 2024-01.pdf 2024-02.pdf 2024-03.pdf

  # Run the HTTP API
  comdirect-parser --serve=:8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("comdirect-parser v%s\n", version)
		os.Exit(0)
	}

	log := logger.New()

	if *serveFlag != "" {
		app := fiber.New()
		api.Register(app)
		log.Info().Str("addr", *serveFlag).Msg("listening")
		if err := app.Listen(*serveFlag); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	// One ledger for the whole run: checkpoints repeated across the given
	// documents must agree with each other.
	ledger := parser.NewLedger()

	failed := false
	for _, inputPath := range flag.Args() {
		if err := processFile(log, inputPath, ledger, *outputFlag, *headerFlag); err != nil {
			log.Error().Err(err).Str("file", inputPath).Msg("conversion failed")
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func processFile(log zerolog.Logger, inputPath string, ledger *parser.Ledger, outputPath string, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	log.Info().Str("file", inputPath).Msg("processing")

	tokens, err := extractor.ExtractTokens(inputPath)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}

	report, err := parser.ParseDocument(filepath.Base(inputPath), tokens, ledger)
	if err != nil {
		return err
	}

	transactionCount := 0
	for _, account := range report.Accounts {
		transactionCount += len(account.Transactions)
	}
	log.Info().
		Int("accounts", len(report.Accounts)).
		Int("transactions", transactionCount).
		Str("date", report.Summary.Date.String()).
		Str("total", report.Summary.TotalBalance.String()).
		Msg("parsed")

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(outPath, report); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	log.Info().Str("output", outPath).Msg("done")
	return nil
}
