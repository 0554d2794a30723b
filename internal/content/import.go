package content

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig controls spreadsheet import.
type ImportConfig struct {
	FilePath  string // .xlsx or .csv
	SheetName string // xlsx only; empty means the first sheet
}

// ImportResult holds the outcome of an import.
type ImportResult struct {
	Pool     *Pool
	Imported int
	Skipped  int
	Errors   []string
}

// Recognized header names, matched case-insensitively.
const (
	colID           = "id"
	colText         = "text"
	colAttribute    = "attribute"
	colCategory     = "category"
	colPartOfSpeech = "part_of_speech"
	colImage        = "image"
	colIsolation    = "audio_isolation"
	colContext      = "audio_context"
)

// ImportSpreadsheet reads study items from a spreadsheet whose first row is
// a header. Rows without a numeric id or text are skipped and reported.
func ImportSpreadsheet(cfg ImportConfig) (*ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(cfg.FilePath)); ext {
	case ".csv":
		rows, err = readCSV(cfg.FilePath)
	case ".xlsx":
		rows, err = readExcel(cfg.FilePath, cfg.SheetName)
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("spreadsheet is empty")
	}
	return importRows(rows)
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("spreadsheet has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func importRows(rows [][]string) (*ImportResult, error) {
	header := make(map[string]int)
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colID, colText, colAttribute} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := header[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	res := &ImportResult{Pool: &Pool{}}
	for n, row := range rows[1:] {
		line := n + 2
		id, err := strconv.Atoi(cell(row, colID))
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: invalid id %q", line, cell(row, colID)))
			continue
		}
		text := cell(row, colText)
		if text == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: empty text", line))
			continue
		}

		item := Item{
			ID:        id,
			Text:      text,
			Attribute: cell(row, colAttribute),
			Category:  cell(row, colCategory),
			Image:     cell(row, colImage),
			Audio: Audio{
				Isolation: cell(row, colIsolation),
				Context:   cell(row, colContext),
			},
			PartOfSpeech: splitTags(cell(row, colPartOfSpeech)),
		}
		item.HasImage = item.Image != ""
		item.HasAudio = item.Audio.Isolation != ""

		res.Pool.Items = append(res.Pool.Items, item)
		res.Imported++
	}

	res.Pool.addImplicitCategories()
	return res, nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == '|' }) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
