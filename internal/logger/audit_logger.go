package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides the audit trail of pipeline runs.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRunStarted logs the start of a pipeline run.
func (al *AuditLogger) LogRunStarted(runID, trigger, strategy string, documents int, startedAt time.Time) {
	al.WithFields(logrus.Fields{
		"run_id":     runID,
		"trigger":    trigger,
		"strategy":   strategy,
		"documents":  documents,
		"started_at": startedAt.Unix(),
	}).Info("Run started")
}

// LogRunCompleted logs a finished pipeline run.
func (al *AuditLogger) LogRunCompleted(runID string, rows, races, bets, failedDocuments int, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"run_id":           runID,
		"rows":             rows,
		"races":            races,
		"bets":             bets,
		"failed_documents": failedDocuments,
		"duration_ms":      float64(duration.Microseconds()) / 1000,
	}).Info("Run completed")
}

// LogRunFailed logs a pipeline run that aborted.
func (al *AuditLogger) LogRunFailed(runID string, err error) {
	al.WithField("run_id", runID).WithError(err).Error("Run failed")
}

// LogArtifactsWritten logs the report files written by a run.
func (al *AuditLogger) LogArtifactsWritten(runID, dir string, files []string) {
	al.WithFields(logrus.Fields{
		"run_id": runID,
		"dir":    dir,
		"files":  files,
	}).Info("Report artifacts written")
}

// LogRowsPersisted logs a successful database write.
func (al *AuditLogger) LogRowsPersisted(runID string, rows, bets int64) {
	al.WithFields(logrus.Fields{
		"run_id": runID,
		"rows":   rows,
		"bets":   bets,
	}).Info("Run persisted")
}
