package logger

import (
	"github.com/sirupsen/logrus"
)

// ParseLogger provides dedicated logging for document extraction and parsing.
type ParseLogger struct {
	*logrus.Entry
}

// NewParseLogger creates a new parse logger.
func NewParseLogger(baseLogger *logrus.Logger) *ParseLogger {
	return &ParseLogger{
		Entry: baseLogger.WithField("component", "parser"),
	}
}

// LogDocumentParsed logs the outcome of parsing one document.
func (pl *ParseLogger) LogDocumentParsed(document, track, date string, lines, rows, orphans, duplicates, unmatched int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"document":    document,
		"track":       track,
		"date":        date,
		"lines":       lines,
		"rows":        rows,
		"orphans":     orphans,
		"duplicates":  duplicates,
		"unmatched":   unmatched,
		"duration_ms": durationMs,
	}).Info("Document parsed")
}

// LogOrphanLine logs a runner line seen before any race header.
func (pl *ParseLogger) LogOrphanLine(document string, lineNo int, text string) {
	pl.WithFields(logrus.Fields{
		"document": document,
		"line_no":  lineNo,
		"text":     text,
	}).Warn("Runner line before any race header dropped")
}

// LogUnknownIdentity logs a document whose track or date could not be inferred.
func (pl *ParseLogger) LogUnknownIdentity(document, track, date string) {
	pl.WithFields(logrus.Fields{
		"document": document,
		"track":    track,
		"date":     date,
	}).Warn("Could not infer track or date from document name")
}

// LogExtractionFailed logs a document that could not be read. The run carries on.
func (pl *ParseLogger) LogExtractionFailed(document string, err error) {
	pl.WithFields(logrus.Fields{
		"document": document,
	}).WithError(err).Error("Failed to extract page text")
}

// LogCacheHit logs a document served from the parse cache.
func (pl *ParseLogger) LogCacheHit(document, contentHash string) {
	pl.WithFields(logrus.Fields{
		"document":     document,
		"content_hash": contentHash,
	}).Debug("Parsed document served from cache")
}
