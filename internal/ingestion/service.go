// Package ingestion drives the contact import pipeline: extract rows from an
// uploaded file, map headers onto canonical fields, validate, dedupe and
// persist the surviving records with a single bulk upsert.
package ingestion

import (
	"context"
	"fmt"

	"github.com/rpattn/contactsvc/internal/domain"
	"github.com/rpattn/contactsvc/internal/extract"
	"github.com/rpattn/contactsvc/internal/mapping"
	"github.com/rpattn/contactsvc/internal/repository"
	"github.com/rpattn/contactsvc/internal/validate"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service imports uploaded contact files. The mapping rules are loaded once
// at startup and shared read-only between imports; everything else is scoped
// to a single call.
type Service struct {
	rules    mapping.RuleSet
	contacts repository.ContactRepository
	log      logrus.FieldLogger
}

// NewService creates an import service around the given rule set and
// persistence boundary.
func NewService(rules mapping.RuleSet, contacts repository.ContactRepository, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		rules:    rules,
		contacts: contacts,
		log:      log,
	}
}

// Import runs one file through the pipeline and returns a per-row report.
// Row-scoped problems (validation failures, in-file duplicates) are recorded
// in the report and never abort the import; a malformed file or a failed
// bulk save is fatal and returned as an error with no report.
func (s *Service) Import(ctx context.Context, payload []byte, mediaType, fileName string, ownerID uuid.UUID) (domain.ImportReport, error) {
	rows, err := extract.Rows(payload, mediaType, fileName)
	if err != nil {
		return domain.ImportReport{}, fmt.Errorf("failed to extract rows from %s: %w", fileName, err)
	}

	report := domain.NewImportReport()
	report.Total = len(rows)

	dedup := NewDeduplicator()
	batch := make([]domain.Contact, 0, len(rows))

	for i, row := range rows {
		// 1-based over the file, counting the header row.
		rowNumber := i + 2

		fields := s.rules.Map(row)
		if len(fields) == 0 {
			// Nothing recognizable in this row; skipped, not failed.
			continue
		}

		candidate, messages := validate.Record(fields)
		if len(messages) > 0 {
			report.AddError(rowNumber, fields[domain.FieldName], messages)
			continue
		}

		if dedup.Observe(candidate) {
			report.AddError(rowNumber, candidate.Name, []string{
				fmt.Sprintf("duplicate contact in file: %s", CompositeKey(candidate)),
			})
			continue
		}

		batch = append(batch, domain.NewContact(ownerID, candidate))
	}

	if len(batch) > 0 {
		if err := s.contacts.BulkUpsert(ctx, batch); err != nil {
			return domain.ImportReport{}, fmt.Errorf("failed to save import batch: %w", err)
		}
	}
	report.Success = len(batch)

	s.log.WithFields(logrus.Fields{
		"file":    fileName,
		"owner":   ownerID,
		"total":   report.Total,
		"success": report.Success,
		"failed":  report.Failed,
	}).Info("contact import finished")

	return report, nil
}
