package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseError reports a document that is not parseable as CT-e XML.
// It is fatal for the single document only; the batch continues.
type ParseError struct {
	Document string
	Field    string
	Message  string
	Cause    error
}

func (e *ParseError) Error() string {
	doc := e.Document
	if doc == "" {
		doc = "document"
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", doc, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", doc, e.Field, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error
func NewParseError(document, field, message string, cause error) *ParseError {
	return &ParseError{
		Document: document,
		Field:    field,
		Message:  message,
		Cause:    cause,
	}
}

// RateUnavailableError reports that no tariff row matched a document's
// route/region/volume. Not fatal; the row is reported as unresolved.
type RateUnavailableError struct {
	Key    string
	Region Region
	Volume decimal.Decimal
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("no tariff row for key=%s region=%s volume=%s", e.Key, e.Region, e.Volume)
}

// NewRateUnavailableError creates a new rate lookup error
func NewRateUnavailableError(key string, region Region, volume decimal.Decimal) *RateUnavailableError {
	return &RateUnavailableError{Key: key, Region: region, Volume: volume}
}

// NoResultError reports an export or lookup against a batch that was
// never processed. Surfaced as "nothing to export", not a crash.
type NoResultError struct {
	BatchID string
}

func (e *NoResultError) Error() string {
	if e.BatchID == "" {
		return "no batch result available, nothing to export"
	}
	return fmt.Sprintf("batch %s not found, nothing to export", e.BatchID)
}

// NewNoResultError creates a new missing-batch error
func NewNoResultError(batchID string) *NoResultError {
	return &NoResultError{BatchID: batchID}
}

// ConfigError reports a malformed reference table or client profile.
// These abort the whole request: there is no meaningful partial result
// without valid reference data.
type ConfigError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed configuration [%s]: %s (%v)", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed configuration [%s]: %s", e.Source, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error
func NewConfigError(source, message string, cause error) *ConfigError {
	return &ConfigError{Source: source, Message: message, Cause: cause}
}
