package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrSourceNotFound  = errors.New("source file not found")
	ErrMalformedSource = errors.New("malformed delimited source")
	ErrEmptyFile       = errors.New("source file is empty")
)

// Source streams raw rows out of a delimited file. The whole file is
// never held in memory; the underlying handle is released by Close on
// every exit path.
type Source struct {
	file    *os.File
	reader  *csv.Reader
	headers []string
	name    string
}

// OpenSource opens a delimited file and reads its header row. A zero
// delimiter means comma.
func OpenSource(path string, delimiter rune) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, err
	}

	r := csv.NewReader(stripBOM(f))
	if delimiter != 0 {
		r.Comma = delimiter
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(strings.Trim(strings.TrimSpace(h), "\"'"))
	}

	return &Source{file: f, reader: r, headers: headers, name: path}, nil
}

// NewSource wraps an already-open stream, reading the header row
// immediately. Used for S3 object bodies where no local path exists.
func NewSource(rc io.Reader, name string, delimiter rune) (*Source, error) {
	r := csv.NewReader(stripBOM(rc))
	if delimiter != 0 {
		r.Comma = delimiter
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %s", ErrEmptyFile, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(strings.Trim(strings.TrimSpace(h), "\"'"))
	}
	return &Source{reader: r, headers: headers, name: name}, nil
}

// Headers returns the header row in source order.
func (s *Source) Headers() []string { return s.headers }

// Name returns the path or key the source was opened from.
func (s *Source) Name() string { return s.name }

// Next returns the next row keyed by header. io.EOF signals the end of
// the file; a csv.ParseError is wrapped as ErrMalformedSource.
func (s *Source) Next() (RawRow, error) {
	row, err := s.reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}

	raw := make(RawRow, len(s.headers))
	for i, v := range row {
		if i >= len(s.headers) {
			break
		}
		raw[s.headers[i]] = v
	}
	return raw, nil
}

func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// stripBOM removes a UTF-8 byte order mark if the stream starts with one.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return io.MultiReader(strings.NewReader(string(buf[:n])), r)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}
