package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// CSVParser handles parsing of CSV streams with BOM stripping and UTF-8 validation
type CSVParser struct {
	delimiter  rune
	lazyQuotes bool
	trimSpace  bool
	headerMap  map[string]int
	headers    []string
	dataRows   int
	reader     *csv.Reader
	bufReader  *bufio.Reader
}

// ParserOption is a functional option for CSVParser configuration
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithLazyQuotes enables lazy quote handling
func WithLazyQuotes(lazy bool) ParserOption {
	return func(p *CSVParser) {
		p.lazyQuotes = lazy
	}
}

// WithTrimSpace enables trimming of leading/trailing spaces from fields
func WithTrimSpace(trim bool) ParserOption {
	return func(p *CSVParser) {
		p.trimSpace = trim
	}
}

// NewCSVParser creates a new CSV parser from a reader.
// It returns ErrEmptyFile for an empty stream and ErrInvalidEncoding when
// the leading bytes are not UTF-8.
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	parser := &CSVParser{
		delimiter:  ',',
		lazyQuotes: true,
		trimSpace:  true,
		headerMap:  make(map[string]int),
	}

	for _, opt := range opts {
		opt(parser)
	}

	parser.bufReader = bufio.NewReader(r)

	content, err := parser.bufReader.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// UTF-8 BOM: 0xEF, 0xBB, 0xBF
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		_, _ = parser.bufReader.Discard(3)
	}

	if err := validateUTF8(parser.bufReader); err != nil {
		return nil, err
	}

	parser.reader = csv.NewReader(parser.bufReader)
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = parser.lazyQuotes
	parser.reader.TrimLeadingSpace = parser.trimSpace
	parser.reader.FieldsPerRecord = -1 // shape is checked per row

	return parser, nil
}

// validateUTF8 checks that the buffered prefix is valid UTF-8
func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}

	if len(content) == 0 {
		return ErrEmptyFile
	}

	// a full window may end inside a multi-byte rune
	if len(content) == checkSize {
		for i := 0; i < utf8.UTFMax-1 && !utf8.Valid(content); i++ {
			content = content[:len(content)-1]
		}
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}

	return nil
}

// ParseHeader reads the header row. Header names are trimmed and lowercased.
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		header := strings.ToLower(trimSpaces(h))
		p.headers[i] = header
		if _, dup := p.headerMap[header]; !dup {
			p.headerMap[header] = i
		}
	}

	if len(p.headers) == 0 {
		return ErrMissingHeader
	}

	return nil
}

// Headers returns the parsed header names
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader checks if a header exists
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// MatchHeaderSet checks that the header holds every required column name
// and nothing else besides the optional ones, each at most once and in any
// order. The returned HeaderMismatch lists what is missing, unexpected or
// repeated.
func (p *CSVParser) MatchHeaderSet(required []string, optional ...string) error {
	want := make(map[string]bool, len(required))
	for _, h := range required {
		want[strings.ToLower(h)] = true
	}
	allowed := make(map[string]bool, len(optional))
	for _, h := range optional {
		allowed[strings.ToLower(h)] = true
	}

	mismatch := &HeaderMismatch{}
	seen := make(map[string]bool, len(p.headers))
	for _, h := range p.headers {
		switch {
		case seen[h]:
			mismatch.Duplicate = append(mismatch.Duplicate, h)
		case !want[h] && !allowed[h]:
			mismatch.Unexpected = append(mismatch.Unexpected, h)
		}
		seen[h] = true
	}
	for h := range want {
		if !seen[h] {
			mismatch.Missing = append(mismatch.Missing, h)
		}
	}

	if mismatch.IsEmpty() {
		return nil
	}
	sort.Strings(mismatch.Missing)
	return mismatch
}

// Row represents a parsed CSV row.
// Index counts data rows from 1; LineNumber is the physical line the record starts on.
type Row struct {
	Index      int
	LineNumber int
	Data       map[string]string
	RawFields  []string
	FieldCount int
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// HasShape reports whether the row has exactly n fields
func (r *Row) HasShape(n int) bool {
	return r.FieldCount == n
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.RawFields {
		if trimSpaces(v) != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next data row. It returns io.EOF at the end of the
// stream. A record with broken quoting yields a *SyntaxError; reading can
// continue with the following record.
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			p.dataRows++
			return nil, &SyntaxError{Index: p.dataRows, Line: parseErr.StartLine, Err: parseErr.Err}
		}
		return nil, fmt.Errorf("error reading row %d: %w", p.dataRows+1, err)
	}

	p.dataRows++
	line, _ := p.reader.FieldPos(0)

	row := &Row{
		Index:      p.dataRows,
		LineNumber: line,
		Data:       make(map[string]string, len(p.headers)),
		RawFields:  record,
		FieldCount: len(record),
	}

	for i, header := range p.headers {
		value := ""
		if i < len(record) {
			value = record[i]
			if p.trimSpace {
				value = trimSpaces(value)
			}
		}
		row.Data[header] = value
	}

	return row, nil
}

// DataRows returns the number of data rows read so far
func (p *CSVParser) DataRows() int {
	return p.dataRows
}

// ParseFromBytes creates a parser from a byte slice
func ParseFromBytes(data []byte, opts ...ParserOption) (*CSVParser, error) {
	return NewCSVParser(bytes.NewReader(data), opts...)
}

// trimSpaces trims whitespace from a string
func trimSpaces(s string) string {
	start := 0
	end := len(s)

	for start < end {
		r, size := utf8.DecodeRuneInString(s[start:])
		if !isWhitespace(r) {
			break
		}
		start += size
	}

	for end > start {
		r, size := utf8.DecodeLastRuneInString(s[:end])
		if !isWhitespace(r) {
			break
		}
		end -= size
	}

	return s[start:end]
}

// isWhitespace checks if a rune is whitespace
func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
