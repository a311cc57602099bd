package building

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
)

// Encoding names the byte encoding of the input file.
type Encoding string

const (
	EncodingLatin1 Encoding = "ISO-8859-1"
	EncodingUTF8   Encoding = "UTF-8"
)

// ParseEncoding maps a configured encoding name to an Encoding.
// Matching is case-insensitive and accepts the common aliases.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return EncodingLatin1, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	}
	return "", serrors.Parsef(serrors.ErrParseUnknownEncoding, "unknown encoding %q", name)
}

// Load reads the table at path.
func Load(path string, enc Encoding) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, serrors.ParseWrap(err, serrors.ErrParseFileNotFound, "input file not found").
				WithContext(serrors.ContextPath, path)
		}
		return nil, serrors.ParseWrap(err, serrors.ErrParseReadFailed, "cannot open input file").
			WithContext(serrors.ContextPath, path)
	}
	defer f.Close()

	t, err := Read(f, enc)
	if err != nil {
		if se, ok := serrors.AsSkylineError(err); ok {
			se.WithContext(serrors.ContextPath, path)
		}
		return nil, err
	}
	return t, nil
}

// Read parses a comma-delimited table with a header row from r.
// Columns are looked up by name; extra columns are ignored.
func Read(r io.Reader, enc Encoding) (*Table, error) {
	switch enc {
	case EncodingLatin1, "":
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	case EncodingUTF8:
	default:
		return nil, serrors.Parsef(serrors.ErrParseUnknownEncoding, "unknown encoding %q", enc)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, serrors.Parse(serrors.ErrParseEmpty, "input has no header row")
	}
	if err != nil {
		return nil, serrors.ParseWrap(err, serrors.ErrParseReadFailed, "cannot read header row")
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		columns[i] = h
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, name := range RequiredColumns {
		if _, ok := index[name]; !ok {
			return nil, serrors.Parsef(serrors.ErrParseMissingColumn, "missing required column %q", name).
				WithContext(serrors.ContextColumn, name)
		}
	}

	t := &Table{Columns: columns}
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, serrors.ParseWrap(err, serrors.ErrParseReadFailed, "cannot read data row").
				WithContext(serrors.ContextRow, strconv.Itoa(row))
		}
		if len(fields) != len(columns) {
			return nil, serrors.Parsef(serrors.ErrParseRaggedRow,
				"row has %d fields, header has %d", len(fields), len(columns)).
				WithContext(serrors.ContextRow, strconv.Itoa(row))
		}

		rec, err := parseRecord(fields, index, row)
		if err != nil {
			return nil, err
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func parseRecord(fields []string, index map[string]int, row int) (Record, error) {
	rec := Record{
		Name:    fields[index[ColumnName]],
		City:    fields[index[ColumnCity]],
		Country: fields[index[ColumnCountry]],
		Row:     row,
	}

	var err error
	if rec.Height, err = parseFloat(fields, index, ColumnHeight, row); err != nil {
		return rec, err
	}
	if rec.Lat, err = parseFloat(fields, index, ColumnLat, row); err != nil {
		return rec, err
	}
	if rec.Lon, err = parseFloat(fields, index, ColumnLon, row); err != nil {
		return rec, err
	}

	raw := strings.TrimSpace(fields[index[ColumnYear]])
	year, perr := strconv.Atoi(raw)
	if perr != nil {
		// Spreadsheet exports often write integral years as 2010.0.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
			return rec, badNumber(perr, ColumnYear, raw, row)
		}
		year = int(f)
	}
	rec.CompletionYear = year
	return rec, nil
}

var errNotFinite = errors.New("value is not a finite number")

func parseFloat(fields []string, index map[string]int, column string, row int) (float64, error) {
	raw := strings.TrimSpace(fields[index[column]])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, badNumber(err, column, raw, row)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, badNumber(errNotFinite, column, raw, row)
	}
	return v, nil
}

func badNumber(cause error, column, value string, row int) error {
	return serrors.ParseWrap(cause, serrors.ErrParseBadNumber, "cannot parse "+column).
		WithContext(serrors.ContextRow, strconv.Itoa(row)).
		WithContext(serrors.ContextColumn, column).
		WithContext("value", value)
}
