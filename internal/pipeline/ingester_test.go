package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minhngoc/olympia/internal/model"
)

type fakeQuestionStore struct {
	questions  []model.Question
	commitErr  error
	batchCalls int
}

func (f *fakeQuestionStore) FindAllQuestionTexts() ([]string, error) {
	texts := make([]string, 0, len(f.questions))
	for _, q := range f.questions {
		texts = append(texts, q.Question)
	}
	return texts, nil
}

func (f *fakeQuestionStore) CreateInBatch(questions []model.Question) error {
	f.batchCalls++
	if f.commitErr != nil {
		return f.commitErr
	}
	f.questions = append(f.questions, questions...)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIngestDirectoryIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "qa.csv", "question,answer\n2+2=?,4\nCapital of Vietnam?,Hanoi\n")
	store := &fakeQuestionStore{}
	ingester := NewIngester(store)

	report, err := ingester.IngestDirectory(dir)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if report.Added != 2 || report.Skipped != 0 {
		t.Errorf("first run: added=%d skipped=%d, want 2/0", report.Added, report.Skipped)
	}
	if len(store.questions) != 2 {
		t.Fatalf("expected 2 stored questions, got %d", len(store.questions))
	}

	report, err = ingester.IngestDirectory(dir)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.Added != 0 || report.Skipped != 2 {
		t.Errorf("second run: added=%d skipped=%d, want 0/2", report.Added, report.Skipped)
	}
	if len(store.questions) != 2 {
		t.Errorf("re-ingestion must not add rows, got %d", len(store.questions))
	}
}

func TestIngestDirectorySkipsFilesMissingColumns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.csv", "answer,question\nHanoi,Capital of Vietnam?\n")
	writeFile(t, dir, "bad.csv", "title,body\nfoo,bar\n")
	writeFile(t, dir, "notes.txt", "not a csv at all")
	store := &fakeQuestionStore{}

	report, err := NewIngester(store).IngestDirectory(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Added != 1 || report.Skipped != 0 {
		t.Errorf("added=%d skipped=%d, want 1/0", report.Added, report.Skipped)
	}
	if store.questions[0].Question != "Capital of Vietnam?" || store.questions[0].Answer != "Hanoi" {
		t.Errorf("columns must be matched by header name, got %+v", store.questions[0])
	}
}

func TestIngestDirectoryEmptyDir(t *testing.T) {
	report, err := NewIngester(&fakeQuestionStore{}).IngestDirectory(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Added != 0 || report.Skipped != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestIngestDirectoryCommitFailureVoidsBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "qa.csv", "question,answer\nq1,a1\n")
	store := &fakeQuestionStore{commitErr: errors.New("connection lost")}

	if _, err := NewIngester(store).IngestDirectory(dir); err == nil {
		t.Fatal("expected an error when the commit fails")
	}
	if len(store.questions) != 0 {
		t.Errorf("failed batch must not leave rows behind, got %d", len(store.questions))
	}
}

func TestIngestDirectoryFillsMissingCells(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "qa.csv", "question,answer\nonly a question\n")
	store := &fakeQuestionStore{}

	report, err := NewIngester(store).IngestDirectory(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Added != 1 {
		t.Fatalf("expected 1 added row, got %d", report.Added)
	}
	if store.questions[0].Answer != "" {
		t.Errorf("missing cell should become empty text, got %q", store.questions[0].Answer)
	}
}
