package api

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/statementworks/comdirect-parser/internal/extractor"
	"github.com/statementworks/comdirect-parser/internal/models"
	"github.com/statementworks/comdirect-parser/internal/parser"
	"github.com/statementworks/comdirect-parser/internal/writer"
)

const version = "1.1.0"

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success          bool           `json:"success"`
	Error            string         `json:"error,omitempty"`
	Report           *models.Report `json:"report,omitempty"`
	CSV              string         `json:"csv,omitempty"`
	AccountCount     int            `json:"accountCount"`
	TransactionCount int            `json:"transactionCount"`
	Version          string         `json:"version,omitempty"`
}

// Register sets up the HTTP routes on the fiber app.
func Register(app *fiber.App) {
	app.Get("/api/health", HandleHealth)
	app.Post("/api/convert", HandleConvert)
}

func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

// HandleConvert accepts one statement PDF as multipart form field "file"
// and returns the parsed report together with its CSV rendering. Each
// upload is one document, so checkpoints are verified against a fresh
// ledger per request.
func HandleConvert(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	tmpFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	if err := c.SaveFile(fileHeader, tmpFile.Name()); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	tokens, err := extractor.ExtractTokens(tmpFile.Name())
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
	}

	report, err := parser.ParseDocument(fileHeader.Filename, tokens, parser.NewLedger())
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Parsing failed: %v", err))
	}

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
	if err := csvWriter.Write(&csvBuf, report); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	transactionCount := 0
	for _, account := range report.Accounts {
		transactionCount += len(account.Transactions)
	}

	return c.JSON(ConvertResponse{
		Success:          true,
		Report:           report,
		CSV:              csvBuf.String(),
		AccountCount:     len(report.Accounts),
		TransactionCount: transactionCount,
		Version:          version,
	})
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		Error:   msg,
	})
}
