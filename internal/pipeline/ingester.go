package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/minhngoc/olympia/internal/model"
	"github.com/rs/zerolog/log"
)

// QuestionStore is the slice of the question repository the ingester needs.
type QuestionStore interface {
	FindAllQuestionTexts() ([]string, error)
	CreateInBatch(questions []model.Question) error
}

type IngestReport struct {
	Added   int
	Skipped int
}

// Ingester loads extracted CSV files into the questions table, skipping rows
// whose question text is already stored. The text match is exact and
// case-sensitive.
type Ingester struct {
	store QuestionStore
}

func NewIngester(store QuestionStore) *Ingester {
	return &Ingester{store: store}
}

// IngestDirectory reads every *.csv file under dir and inserts the new rows
// in one transaction. Files missing the required columns are skipped with a
// diagnostic; a commit failure voids the entire batch.
func (in *Ingester) IngestDirectory(dir string) (*IngestReport, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("listing CSV files in %s: %w", dir, err)
	}
	if len(files) == 0 {
		log.Warn().Str("dir", dir).Msg("No CSV files found")
		return &IngestReport{}, nil
	}
	sort.Strings(files)

	var rows []QAPair
	for _, file := range files {
		log.Info().Str("file", file).Msg("Reading CSV file")
		pairs, err := readCSVFile(file)
		if err != nil {
			log.Warn().Err(err).Str("file", file).Msg("Skipping CSV file")
			continue
		}
		rows = append(rows, pairs...)
	}

	existingTexts, err := in.store.FindAllQuestionTexts()
	if err != nil {
		return nil, fmt.Errorf("loading existing questions: %w", err)
	}
	existing := make(map[string]struct{}, len(existingTexts))
	for _, text := range existingTexts {
		existing[text] = struct{}{}
	}

	now := time.Now().UTC()
	report := &IngestReport{}
	var batch []model.Question
	for _, row := range rows {
		if _, ok := existing[row.Question]; ok {
			report.Skipped++
			continue
		}
		batch = append(batch, model.Question{
			Question:  row.Question,
			Answer:    row.Answer,
			CreatedAt: now,
			UpdatedAt: now,
		})
		report.Added++
	}

	if len(batch) > 0 {
		if err := in.store.CreateInBatch(batch); err != nil {
			return nil, fmt.Errorf("committing %d questions: %w", len(batch), err)
		}
	}

	log.Info().Int("added", report.Added).Int("skipped", report.Skipped).Msg("Ingestion finished")
	return report, nil
}

// readCSVFile returns the question/answer cells of every data row. The header
// must contain both required columns, in any position; missing cells become
// empty text.
func readCSVFile(path string) ([]QAPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	questionIdx, answerIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "question":
			questionIdx = i
		case "answer":
			answerIdx = i
		}
	}
	if questionIdx < 0 || answerIdx < 0 {
		return nil, fmt.Errorf("missing required columns (question, answer)")
	}

	var pairs []QAPair
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		var pair QAPair
		if questionIdx < len(record) {
			pair.Question = record[questionIdx]
		}
		if answerIdx < len(record) {
			pair.Answer = record[answerIdx]
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
