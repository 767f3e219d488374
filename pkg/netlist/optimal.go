package netlist

import (
	"strconv"
)

// Unset is the value of an optimal metric that has never been measured.
const Unset = 1000000

// Optimal holds the best known reference metrics of one instance. It is
// used to benchmark placements, never to drive them.
type Optimal struct {
	ID        int
	Name      string
	Euclidean float64
	HPWL      float64
}

// NewOptimal returns an optimal with id -1, name "NULL" and both metrics
// set to [Unset].
func NewOptimal() Optimal {
	return Optimal{ID: -1, Name: "NULL", Euclidean: Unset, HPWL: Unset}
}

// ParseOptimal parses an "id,name,euclidean_distance,hpwl" record.
func ParseOptimal(line string) (Optimal, error) {
	o := NewOptimal()
	s := newScanner("optimal", line, optimalFields)
	o.ID = s.atoi()
	o.Name = s.str()
	o.Euclidean = s.atof()
	o.HPWL = s.atof()
	return o, s.err
}

// Record formats o with prec decimals, or exactly when prec is negative.
func (o Optimal) Record(prec int) string {
	return join(strconv.Itoa(o.ID), o.Name, ftoa(o.Euclidean, prec), ftoa(o.HPWL, prec))
}

// String returns the record with exact reals.
func (o Optimal) String() string { return o.Record(-1) }

// EuclideanUnset reports whether no euclidean optimum is known.
func (o Optimal) EuclideanUnset() bool { return o.Euclidean >= Unset }

// HPWLUnset reports whether no HPWL optimum is known.
func (o Optimal) HPWLUnset() bool { return o.HPWL >= Unset }
