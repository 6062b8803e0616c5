// Package ingest reads uploaded work-order sheets and graph payloads.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/TFMV/ontograph/models"
)

var (
	// ErrUnsupportedFormat is returned for uploads that are not csv, xlsx or txt
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptySheet is returned for sheets without a header row
	ErrEmptySheet = errors.New("sheet has no header row")
)

// Table is a sheet read as header + records keyed by column name.
// Blank cells are absent from the record.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw upload bytes and returns the extracted ontology
	ProcessData(data []byte) (*models.Ontology, error)

	// GetName returns the name of the processor
	GetName() string
}

// Option configures the processors returned by ProcessorFor
type Option func(*options)

type options struct {
	workOrders bool
}

// WithWorkOrders makes sheet processors extract work orders as entities
func WithWorkOrders() Option {
	return func(o *options) { o.workOrders = true }
}

// ProcessorFor picks a processor by file extension
func ProcessorFor(filename string, opts ...Option) (DataProcessor, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return &CSVProcessor{WorkOrders: o.workOrders}, nil
	case ".xlsx":
		return &XLSXProcessor{WorkOrders: o.workOrders}, nil
	case ".txt", ".log":
		return NewLogProcessor(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

// ReadRows reads a csv or xlsx sheet
func ReadRows(filename string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx":
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

func readCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptySheet
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	var records [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}
		records = append(records, row)
	}
	return newTable(header, records)
}

func readXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return newTable(rows[0], rows[1:])
}

func newTable(header []string, records [][]string) (*Table, error) {
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if len(headers) == 0 || (len(headers) == 1 && headers[0] == "") {
		return nil, ErrEmptySheet
	}

	t := &Table{Headers: headers, Rows: make([]map[string]string, 0, len(records))}
	for _, rec := range records {
		row := make(map[string]string, len(headers))
		for i, cell := range rec {
			if i >= len(headers) {
				break
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				row[headers[i]] = cell
			}
		}
		if len(row) > 0 {
			t.Rows = append(t.Rows, row)
		}
	}
	return t, nil
}

// CSVProcessor handles CSV uploads
type CSVProcessor struct {
	WorkOrders bool
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data
func (p *CSVProcessor) ProcessData(data []byte) (*models.Ontology, error) {
	t, err := readCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	o := extract(t, p.WorkOrders)
	return &o, nil
}

// XLSXProcessor handles Excel uploads, reading the first sheet
type XLSXProcessor struct {
	WorkOrders bool
}

// GetName returns the name of the processor
func (p *XLSXProcessor) GetName() string {
	return "XLSX Processor"
}

// ProcessData processes XLSX data
func (p *XLSXProcessor) ProcessData(data []byte) (*models.Ontology, error) {
	t, err := readXLSX(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	o := extract(t, p.WorkOrders)
	return &o, nil
}
