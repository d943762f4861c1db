package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rpattn/contactsvc/internal/domain"
	"github.com/rpattn/contactsvc/internal/mapping"

	"github.com/google/uuid"
)

type stubContactRepo struct {
	upserted   [][]domain.Contact
	upsertErr  error
	created    []domain.Contact
	listResult []domain.Contact
}

func (s *stubContactRepo) Create(_ context.Context, contact domain.Contact) (domain.Contact, error) {
	s.created = append(s.created, contact)
	return contact, nil
}

func (s *stubContactRepo) BulkUpsert(_ context.Context, contacts []domain.Contact) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserted = append(s.upserted, contacts)
	return nil
}

func (s *stubContactRepo) GetByID(_ context.Context, _, _ uuid.UUID) (domain.Contact, error) {
	return domain.Contact{}, errors.New("not found")
}

func (s *stubContactRepo) Update(_ context.Context, contact domain.Contact) (domain.Contact, error) {
	return contact, nil
}

func (s *stubContactRepo) List(_ context.Context, _ uuid.UUID, _, _ int) ([]domain.Contact, int, error) {
	return s.listResult, len(s.listResult), nil
}

func (s *stubContactRepo) Count(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(s.listResult)), nil
}

func testRules(t *testing.T) mapping.RuleSet {
	t.Helper()
	rules, err := mapping.NewRuleSet([][2]string{
		{domain.FieldName, "^(имя|name)"},
		{domain.FieldTaxID, "^(инн|tax)"},
		{domain.FieldPhone, "^(тел|phone)"},
		{domain.FieldEmail, "^e-?mail"},
	})
	if err != nil {
		t.Fatalf("failed to build rules: %v", err)
	}
	return rules
}

func TestImportDuplicateAndInvalidRows(t *testing.T) {
	repo := &stubContactRepo{}
	service := NewService(testRules(t), repo, nil)
	ownerID := uuid.New()

	data := "Имя,ИНН,Телефон\n" +
		"Acme,7701020304,89991234567\n" +
		"Acme,7701020304,89991234567\n" +
		",1234567890,89991234567\n"

	report, err := service.Import(context.Background(), []byte(data), "text/csv", "contacts.csv", ownerID)
	if err != nil {
		t.Fatalf("import returned error: %v", err)
	}

	if report.Total != 3 || report.Success != 1 || report.Failed != 2 {
		t.Fatalf("unexpected report counters: %+v", report)
	}
	if len(report.Errors) != report.Failed {
		t.Fatalf("errors length %d must equal failed %d", len(report.Errors), report.Failed)
	}

	// Row numbering counts the header row; the second data row is file row 3.
	dup := report.Errors[0]
	if dup.Row != 3 {
		t.Fatalf("expected duplicate at row 3, got %d", dup.Row)
	}
	if len(dup.Messages) != 1 || !strings.Contains(dup.Messages[0], "ACME|7701020304|+79991234567") {
		t.Fatalf("duplicate message must name the composite key: %v", dup.Messages)
	}

	invalid := report.Errors[1]
	if invalid.Row != 4 {
		t.Fatalf("expected invalid row at 4, got %d", invalid.Row)
	}
	if invalid.Name != "" {
		t.Fatalf("best-effort name for the nameless row must be empty, got %q", invalid.Name)
	}

	if len(repo.upserted) != 1 || len(repo.upserted[0]) != 1 {
		t.Fatalf("expected one bulk call with one contact, got %+v", repo.upserted)
	}
	saved := repo.upserted[0][0]
	if saved.OwnerID != ownerID {
		t.Fatalf("owner not stamped onto the candidate: %+v", saved)
	}
	if saved.Phone != "+79991234567" {
		t.Fatalf("phone not normalized before saving: %+v", saved)
	}
}

func TestImportFirstDataRowReportsAsRowTwo(t *testing.T) {
	repo := &stubContactRepo{}
	service := NewService(testRules(t), repo, nil)

	data := "Имя,ИНН,Телефон\n,7701020304,89991234567\n"

	report, err := service.Import(context.Background(), []byte(data), "text/csv", "contacts.csv", uuid.New())
	if err != nil {
		t.Fatalf("import returned error: %v", err)
	}
	if len(report.Errors) != 1 || report.Errors[0].Row != 2 {
		t.Fatalf("first data row must report as row 2: %+v", report.Errors)
	}
}

func TestImportSkipsRowsWithNoMappedHeaders(t *testing.T) {
	repo := &stubContactRepo{}
	service := NewService(testRules(t), repo, nil)

	// No header matches any rule: every row maps to nothing and is skipped
	// without being counted as failed.
	data := "Колонка1,Колонка2\nx,y\nz,w\n"

	report, err := service.Import(context.Background(), []byte(data), "text/csv", "contacts.csv", uuid.New())
	if err != nil {
		t.Fatalf("import returned error: %v", err)
	}
	if report.Total != 2 || report.Failed != 0 || report.Success != 0 {
		t.Fatalf("skipped rows must count only toward total: %+v", report)
	}
	if len(repo.upserted) != 0 {
		t.Fatalf("nothing to persist, but bulk upsert was called")
	}
}

func TestImportAllRowsFailedIsStillAReport(t *testing.T) {
	repo := &stubContactRepo{}
	service := NewService(testRules(t), repo, nil)

	data := "Имя,ИНН,Телефон\nAcme,123,nope\n"

	report, err := service.Import(context.Background(), []byte(data), "text/csv", "contacts.csv", uuid.New())
	if err != nil {
		t.Fatalf("100%% failure is a valid outcome, got error: %v", err)
	}
	if report.Total != 1 || report.Failed != 1 || report.Success != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Errors[0].Name != "Acme" {
		t.Fatalf("error entry must carry the best-effort name: %+v", report.Errors[0])
	}
}

func TestImportExtractionFailureIsFatal(t *testing.T) {
	repo := &stubContactRepo{}
	service := NewService(testRules(t), repo, nil)

	data := "Имя\n\"unterminated\n"

	if _, err := service.Import(context.Background(), []byte(data), "text/csv", "contacts.csv", uuid.New()); err == nil {
		t.Fatalf("expected fatal error for malformed csv")
	}
	if len(repo.upserted) != 0 {
		t.Fatalf("nothing may be persisted after a fatal extraction failure")
	}
}

func TestImportPersistenceFailureDiscardsReport(t *testing.T) {
	repo := &stubContactRepo{upsertErr: errors.New("storage down")}
	service := NewService(testRules(t), repo, nil)

	data := "Имя,ИНН,Телефон\nAcme,7701020304,89991234567\n"

	report, err := service.Import(context.Background(), []byte(data), "text/csv", "contacts.csv", uuid.New())
	if err == nil {
		t.Fatalf("expected bulk save failure to be fatal")
	}
	if report.Total != 0 || report.Success != 0 || len(report.Errors) != 0 {
		t.Fatalf("no partial report may survive a fatal failure: %+v", report)
	}
}

func TestImportUnknownMediaTypeYieldsEmptyReport(t *testing.T) {
	repo := &stubContactRepo{}
	service := NewService(testRules(t), repo, nil)

	report, err := service.Import(context.Background(), []byte("whatever"), "application/pdf", "contacts.pdf", uuid.New())
	if err != nil {
		t.Fatalf("unknown media type must not fail the import: %v", err)
	}
	if report.Total != 0 || report.Success != 0 || report.Failed != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestImportErrorsAscendingByRow(t *testing.T) {
	repo := &stubContactRepo{}
	service := NewService(testRules(t), repo, nil)

	data := "Имя,ИНН,Телефон\n" +
		",7701020304,89991234567\n" +
		"Acme,7701020304,89991234567\n" +
		"acme,7701020304,89991234567\n" +
		",bad,\n"

	report, err := service.Import(context.Background(), []byte(data), "text/csv", "contacts.csv", uuid.New())
	if err != nil {
		t.Fatalf("import returned error: %v", err)
	}
	if len(report.Errors) != 3 {
		t.Fatalf("expected 3 error entries, got %+v", report.Errors)
	}
	for i := 1; i < len(report.Errors); i++ {
		if report.Errors[i].Row <= report.Errors[i-1].Row {
			t.Fatalf("errors not in ascending row order: %+v", report.Errors)
		}
	}
}
