package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/cwater/internal/conserve"
)

const (
	// PresenceHeader is the first header cell of the presence matrix.
	PresenceHeader = "Water Conservation Score"
	// NoWater marks a structure that contributes no atom to a cluster.
	NoWater = "NoWater"
)

// ErrMalformed is returned when a presence matrix cannot be read back.
var ErrMalformed = errors.New("report: malformed presence matrix")

// FormatScore renders a score with the shortest exact representation and
// always with a decimal point ("1.0", "0.75").
func FormatScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// WritePresence writes the presence matrix. Every row must have one cell
// per structure.
func WritePresence(w io.Writer, structures []string, rows []conserve.PresenceRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := make([]string, 0, len(structures)+1)
	header = append(header, PresenceHeader)
	header = append(header, structures...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(structures)+1)
	for i, row := range rows {
		if len(row.Cells) != len(structures) {
			return fmt.Errorf("report: row %d has %d cells for %d structures", i, len(row.Cells), len(structures))
		}
		record[0] = FormatScore(row.Score)
		for j, c := range row.Cells {
			if c.Present {
				record[j+1] = strconv.Itoa(c.Serial)
			} else {
				record[j+1] = NoWater
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// PresenceTable is a presence matrix read back from its text form.
type PresenceTable struct {
	Structures []string
	Rows       []conserve.PresenceRow
}

// ReadPresence parses a presence matrix written by WritePresence.
func ReadPresence(r io.Reader) (*PresenceTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(records) == 0 || records[0][0] != PresenceHeader {
		return nil, fmt.Errorf("%w: missing header", ErrMalformed)
	}

	t := &PresenceTable{Structures: records[0][1:]}
	for i, rec := range records[1:] {
		score, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformed, i+1, err)
		}
		row := conserve.PresenceRow{Score: score, Cells: make([]conserve.Cell, len(rec)-1)}
		for j, v := range rec[1:] {
			if v == NoWater {
				continue
			}
			serial, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %w", ErrMalformed, i+1, err)
			}
			row.Cells[j] = conserve.Cell{Serial: serial, Present: true}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
