package curriculum

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig defines how to read a curriculum from an Excel or CSV file
type ImportConfig struct {
	FilePath           string // Path to the Excel or CSV file
	IDColumn           string // Column with the concept id
	CategoryColumn     string // Column with the category
	PrerequisiteColumn string // Column with comma-separated prerequisite ids
	DifficultyColumn   string // Column with the 0-1 difficulty
	DurationColumn     string // Column with the duration in minutes
	SheetName          string // Name of the sheet to import
	StartRow           int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		IDColumn:           "A",
		CategoryColumn:     "B",
		PrerequisiteColumn: "C",
		DifficultyColumn:   "D",
		DurationColumn:     "E",
		SheetName:          "Sheet1",
		StartRow:           2, // skip the header row
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// Import reads a curriculum from an Excel or CSV file. Rows with an empty id
// or unparseable numbers are skipped and reported in the result.
func Import(config ImportConfig) (*Curriculum, *ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

func importFromExcel(config ImportConfig) (*Curriculum, *ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %v", config.SheetName, err)
	}

	cols := make([]int, 5)
	for i, name := range []string{config.IDColumn, config.CategoryColumn, config.PrerequisiteColumn, config.DifficultyColumn, config.DurationColumn} {
		idx, err := excelize.ColumnNameToNumber(name)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid column %q: %v", name, err)
		}
		cols[i] = idx - 1
	}

	result := &ImportResult{}
	cur := &Curriculum{Name: strings.TrimSuffix(filepath.Base(config.FilePath), filepath.Ext(config.FilePath))}
	for rowNum, row := range rows {
		if rowNum+1 < config.StartRow {
			continue
		}
		result.TotalProcessed++
		fields := make([]string, 5)
		for i, idx := range cols {
			if idx < len(row) {
				fields[i] = strings.TrimSpace(row[idx])
			}
		}
		appendConcept(cur, result, rowNum+1, fields)
	}

	if err := cur.Validate(); err != nil {
		return nil, result, err
	}
	return cur, result, nil
}

func importFromCSV(config ImportConfig) (*Curriculum, *ImportResult, error) {
	f, err := os.Open(config.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open csv file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	result := &ImportResult{}
	cur := &Curriculum{Name: strings.TrimSuffix(filepath.Base(config.FilePath), filepath.Ext(config.FilePath))}
	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, result, fmt.Errorf("failed to read csv row: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++
		fields := make([]string, 5)
		for i := 0; i < 5 && i < len(record); i++ {
			fields[i] = strings.TrimSpace(record[i])
		}
		appendConcept(cur, result, rowNum, fields)
	}

	if err := cur.Validate(); err != nil {
		return nil, result, err
	}
	return cur, result, nil
}

// appendConcept parses one row's fields (id, category, prerequisites,
// difficulty, duration) into the curriculum
func appendConcept(cur *Curriculum, result *ImportResult, rowNum int, fields []string) {
	id := fields[0]
	if id == "" {
		result.Skipped++
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: empty concept id", rowNum))
		return
	}

	var prerequisites []string
	if fields[2] != "" {
		for _, p := range strings.Split(fields[2], ",") {
			if p = strings.TrimSpace(p); p != "" {
				prerequisites = append(prerequisites, p)
			}
		}
	}

	difficulty := 0.5
	if fields[3] != "" {
		v, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad difficulty %q", rowNum, fields[3]))
			return
		}
		difficulty = v
	}

	duration := 30
	if fields[4] != "" {
		v, err := strconv.Atoi(fields[4])
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad duration %q", rowNum, fields[4]))
			return
		}
		duration = v
	}

	cur.Concepts = append(cur.Concepts, Concept{
		ID:              id,
		Category:        fields[1],
		Prerequisites:   prerequisites,
		Difficulty:      difficulty,
		DurationMinutes: duration,
	})
	result.Created++
}
