package parser

import "errors"

// Every parse failure wraps one of these sentinels so callers can match the
// failure kind with errors.Is even after the document name has been added.
// All of them are terminal for the document being parsed; nothing is retried.
var (
	ErrMalformedAmount              = errors.New("malformed currency amount")
	ErrMalformedDate                = errors.New("malformed date")
	ErrMissingCaption               = errors.New("no section caption found")
	ErrUnexpectedOverviewHeader     = errors.New("unexpected overview structure")
	ErrOverviewBalanceMismatch      = errors.New("sum of account balances does not match declared total")
	ErrMissingOpeningCheckpoint     = errors.New(`opening balance row "Alter Saldo" not found`)
	ErrMissingClosingCheckpoint     = errors.New(`closing balance row "Neuer Saldo" not found`)
	ErrCheckpointMismatch           = errors.New("balance does not match previously recorded checkpoint")
	ErrUnrecognizedProcessReference = errors.New("unrecognized process/reference text")
	ErrUnknownAccountSection        = errors.New("account section not present in overview")
)
