package netlist

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/matzehuels/pcbgraph/pkg/errors"
)

// Format selects between the two record layouts.
type Format int

const (
	// Short records carry ids and geometry only.
	Short Format = iota
	// Long records add names, pad ids and the component type.
	Long
)

// String returns "short" or "long".
func (f Format) String() string {
	if f == Long {
		return "long"
	}
	return "short"
}

// FormatFromBool maps the common "long format" flag onto a Format.
func FormatFromBool(long bool) Format {
	if long {
		return Long
	}
	return Short
}

// Field names used in MalformedRecord errors.
var (
	nodeFieldsShort = []string{"id", "size_x", "size_y", "pos_x", "pos_y", "orientation", "layer", "placed", "pins", "pins_smd", "pins_th"}
	nodeFieldsLong  = []string{"id", "name", "size_x", "size_y", "pos_x", "pos_y", "orientation", "layer", "placed", "pins", "pins_smd", "pins_th", "type"}

	edgeFieldsShort = []string{
		"a_id", "a_size_x", "a_size_y", "a_pos_x", "a_pos_y", "a_placed",
		"b_id", "b_size_x", "b_size_y", "b_pos_x", "b_pos_y", "b_placed",
		"net_id", "power_rail",
	}
	edgeFieldsLong = []string{
		"a_id", "a_pad_id", "a_pad_name", "a_size_x", "a_size_y", "a_pos_x", "a_pos_y", "a_placed",
		"b_id", "b_pad_id", "b_pad_name", "b_size_x", "b_size_y", "b_pos_x", "b_pos_y", "b_placed",
		"net_id", "net_name", "power_rail",
	}

	optimalFields = []string{"id", "name", "euclidean_distance", "hpwl"}
)

// scanner reads the comma separated fields of one record in order and
// remembers the first failure.
type scanner struct {
	kind   string
	line   string
	names  []string
	fields []string
	pos    int
	err    error
}

func newScanner(kind, line string, names []string) *scanner {
	line = strings.TrimRight(line, "\r\n")
	s := &scanner{kind: kind, line: line, names: names, fields: strings.Split(line, ",")}
	if len(s.fields) != len(names) {
		s.err = errs.Malformed(kind, line, -1, "", fmt.Errorf("want %d fields, got %d", len(names), len(s.fields)))
	}
	return s
}

func (s *scanner) next() (string, int, bool) {
	if s.err != nil {
		return "", 0, false
	}
	i := s.pos
	s.pos++
	return strings.TrimSpace(s.fields[i]), i, true
}

func (s *scanner) fail(i int, err error) {
	s.err = errs.Malformed(s.kind, s.line, i, s.names[i], err)
}

func (s *scanner) str() string {
	v, _, _ := s.next()
	return v
}

func (s *scanner) atoi() int {
	v, i, ok := s.next()
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		s.fail(i, err)
	}
	return n
}

func (s *scanner) atof() float64 {
	v, i, ok := s.next()
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		s.fail(i, err)
	}
	return f
}

// flag parses the integer placement flag: zero is false, anything else true.
func (s *scanner) flag() bool {
	return s.atoi() != 0
}

// ftoa formats a real with prec decimals, or the shortest exact
// representation when prec is negative.
func ftoa(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func btoa(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func join(fields ...string) string { return strings.Join(fields, ",") }

// CheckName returns ErrCodeInvalidInput if s cannot be stored in a record
// field and read back unchanged: it must not contain a comma or a line
// break, nor start or end with whitespace.
func CheckName(field, s string) error {
	if strings.ContainsAny(s, ",\r\n") {
		return errs.New(errs.ErrCodeInvalidInput, "%s %q contains a comma or line break", field, s)
	}
	if strings.TrimSpace(s) != s {
		return errs.New(errs.ErrCodeInvalidInput, "%s %q has leading or trailing whitespace", field, s)
	}
	return nil
}
