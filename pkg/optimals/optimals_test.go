package optimals

import (
	"context"
	"io"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/geom"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

var quiet = log.New(io.Discard)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// pair builds A at the origin with two pins and B ten units to the right
// with one. A's pin 0 reaches B over N1, pin 1 over N2 and the VCC rail.
func pair(t *testing.T) *netlist.Graph {
	t.Helper()
	g := netlist.New("pair")
	for _, c := range []struct {
		id   int
		name string
		x    float64
		pins int
	}{
		{0, "A", 0, 2},
		{1, "B", 10, 1},
	} {
		n := netlist.NewNode()
		n.ID, n.Name, n.Pins = c.id, c.name, c.pins
		n.Size = geom.Point{X: 2, Y: 2}
		n.Pos = geom.Point{X: c.x}
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	edge := func(net int, name string, rail int, aPad int, aPos geom.Point) netlist.Edge {
		return netlist.Edge{
			Ends: [2]netlist.Endpoint{
				{ID: 0, PadID: aPad, PadPos: aPos},
				{ID: 1, PadID: 0, PadPos: geom.Point{X: -1}},
			},
			NetID: net, NetName: name, PowerRail: rail,
		}
	}
	g.AddEdge(edge(0, "N1", 0, 0, geom.Point{X: 1}))
	g.AddEdge(edge(1, "N2", 0, 1, geom.Point{Y: 1}))
	g.AddEdge(edge(2, "VCC", 1, 1, geom.Point{Y: 1}))
	return g
}

func TestCompute(t *testing.T) {
	g := pair(t)
	tests := []struct {
		id           int
		euclid, hpwl float64
	}{
		{0, 8 + math.Sqrt(82), 28},
		{1, 8, 28},
	}
	for _, tt := range tests {
		m, err := Compute(g, tt.id)
		if err != nil {
			t.Fatalf("Compute(%d) error = %v", tt.id, err)
		}
		if !approx(m.Euclidean, tt.euclid) {
			t.Errorf("Compute(%d).Euclidean = %v, want %v", tt.id, m.Euclidean, tt.euclid)
		}
		if !approx(m.HPWL, tt.hpwl) {
			t.Errorf("Compute(%d).HPWL = %v, want %v", tt.id, m.HPWL, tt.hpwl)
		}
	}
}

func TestComputeUnknownNode(t *testing.T) {
	if _, err := Compute(pair(t), 9); !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("Compute(9) error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestUpdate(t *testing.T) {
	g := pair(t)
	s, err := Update(g, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if s.Total != 2 || s.Updated != 2 {
		t.Errorf("Summary = %d/%d updated, want 2/2", s.Updated, s.Total)
	}
	if !approx(s.HPWL, 56) || !approx(g.CachedHPWL(), 56) {
		t.Errorf("HPWL = %v (graph %v), want 56", s.HPWL, g.CachedHPWL())
	}
	if s.Rate() != 1 {
		t.Errorf("Rate() = %v, want 1", s.Rate())
	}
	for _, n := range g.PristineNodes() {
		if !approx(n.Optimal.HPWL, 28) {
			t.Errorf("pristine %s HPWL optimal = %v, want 28", n.Name, n.Optimal.HPWL)
		}
	}

	// Nothing moved, nothing improves.
	s, err = Update(g, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if s.Updated != 0 || len(s.Changes) != 0 {
		t.Errorf("second Update changed %d components, want 0", s.Updated)
	}
}

func TestUpdateKeepsBetterValues(t *testing.T) {
	g := pair(t)
	if err := g.SetOptimal(netlist.Optimal{ID: 0, Name: "A", Euclidean: 5, HPWL: 100}); err != nil {
		t.Fatal(err)
	}
	s, err := Update(g, quiet)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := g.Node(0)
	if n.Optimal.Euclidean != 5 {
		t.Errorf("Euclidean = %v, want 5 kept", n.Optimal.Euclidean)
	}
	if !approx(n.Optimal.HPWL, 28) {
		t.Errorf("HPWL = %v, want 28", n.Optimal.HPWL)
	}
	if len(s.Changes) != 2 || s.Changes[0].Before.HPWL != 100 {
		t.Errorf("Changes = %+v", s.Changes)
	}
}

func TestApplyAndCollect(t *testing.T) {
	g := pair(t)
	n := Apply(g, []netlist.Optimal{
		{ID: 0, Name: "A", Euclidean: 1, HPWL: 2},
		{ID: 7, Name: "gone", Euclidean: 1, HPWL: 2},
	}, quiet)
	if n != 1 {
		t.Errorf("Apply() = %d, want 1", n)
	}
	got := Collect(g)
	if len(got) != 2 {
		t.Fatalf("len(Collect()) = %d, want 2", len(got))
	}
	if got[0].HPWL != 2 || got[1].Name != "B" || !got[1].HPWLUnset() {
		t.Errorf("Collect() = %+v", got)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "optimals"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)

	got, err := s.Load(ctx, "amp")
	if err != nil || got != nil {
		t.Fatalf("Load of unknown design = (%v, %v), want (nil, nil)", got, err)
	}

	want := []netlist.Optimal{
		{ID: 0, Name: "U1", Euclidean: 12.5, HPWL: 30.25},
		{ID: 1, Name: "R1", Euclidean: netlist.Unset, HPWL: netlist.Unset},
	}
	if err := s.Save(ctx, "amp", want); err != nil {
		t.Fatal(err)
	}
	got, err = s.Load(ctx, "amp")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load() returned %d optimals, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("optimal %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMongoDocRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	opts := []netlist.Optimal{{ID: 3, Name: "J1", Euclidean: 4, HPWL: 9}}
	doc := toDoc("amp", opts, now)
	if doc.Design != "amp" || doc.Version != netlist.RecordVersion || !doc.UpdatedAt.Equal(now) {
		t.Errorf("toDoc() = %+v", doc)
	}
	back := fromDoc(doc)
	if len(back) != 1 || back[0] != opts[0] {
		t.Errorf("fromDoc(toDoc()) = %+v, want %+v", back, opts)
	}
}

func TestNewMongoStoreBadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := NewMongoStore(ctx, MongoConfig{URI: "not-a-mongo-uri"})
	if !errs.Is(err, errs.ErrCodeStore) {
		t.Errorf("NewMongoStore() error = %v, want STORE_ERROR", err)
	}
}
