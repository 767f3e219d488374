package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/pcbgraph/pkg/cache"
	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/feature"
	pcbio "github.com/matzehuels/pcbgraph/pkg/io"
)

const nodesText = `0,U1,4,2,10,10,0,0,0,8,8,0,3
1,R1,2,1,20,10,0,0,0,2,2,0,1
2,C1,1,1,10,20,90,0,0,2,2,0,0
3,J1,3,3,0,0,0,0,0,2,0,2,5`

const edgesText = `0,0,1,0.5,0.5,-1,0,0,1,0,1,0.5,0.5,-1,0,0,1,SIG_A,0
0,1,2,0.5,0.5,1,0.4,0,1,1,2,0.5,0.5,1,0.2,0,2,SIG_B,0
0,2,3,0.5,0.5,0,1,0,2,0,1,0.5,0.5,0.5,0,0,3,SIG_C,0
0,3,4,0.5,0.5,0,-1,0,3,0,1,0.5,0.5,0,0,0,4,GND,1
2,1,2,0.5,0.5,-0.5,0,0,3,1,2,0.5,0.5,1,0,0,4,GND,1
0,4,5,0.5,0.5,1,1,0,0,5,6,0.5,0.5,1,-1,0,5,TP,0`

const boardText = `bb_min_x,0
bb_min_y,0
bb_max_x,40
bb_max_y,30`

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := New(Config{Cache: c})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	} else {
		r = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func create(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	var stats statsResponse
	status := do(t, ts, "POST", "/sessions", createRequest{Name: "amp", Nodes: nodesText, Edges: edgesText, Board: boardText}, &stats)
	if status != http.StatusCreated {
		t.Fatalf("POST /sessions status = %d, want 201", status)
	}
	return stats.ID
}

func TestCreateAndStats(t *testing.T) {
	_, ts := newTestServer(t)
	id := create(t, ts)

	var stats statsResponse
	if status := do(t, ts, "GET", "/sessions/"+id, nil, &stats); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if stats.Design != "amp" || stats.Nodes != 4 || stats.Edges != 6 || stats.Placed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Board == nil || stats.Board.MaxX != 40 {
		t.Errorf("stats.Board = %+v, want max_x 40", stats.Board)
	}

	var list map[string][]string
	do(t, ts, "GET", "/sessions", nil, &list)
	if len(list["sessions"]) != 1 || list["sessions"][0] != id {
		t.Errorf("sessions = %v, want [%s]", list["sessions"], id)
	}
}

func TestCreateErrors(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		name string
		req  createRequest
		code errs.Code
	}{
		{"NoNodes", createRequest{Name: "x"}, errs.ErrCodeInvalidInput},
		{"BadName", createRequest{Name: "../x", Nodes: nodesText}, errs.ErrCodeInvalidInput},
		{"BadFormat", createRequest{Nodes: nodesText, Format: "medium"}, errs.ErrCodeInvalidFormat},
		{"Malformed", createRequest{Nodes: "0,U1,wide"}, errs.ErrCodeMalformedRecord},
		{"DanglingEdge", createRequest{Nodes: "0,U1,4,2,10,10,0,0,0,8,8,0,3", Edges: edgesText}, errs.ErrCodeNodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			status := do(t, ts, "POST", "/sessions", tt.req, &body)
			if body.Error.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.code)
			}
			if want := statusFor(tt.code); status != want {
				t.Errorf("status = %d, want %d", status, want)
			}
		})
	}
}

func TestCreateFromSnapshot(t *testing.T) {
	g, err := pcbio.Build("snap", nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := pcbio.WriteJSON(g, &buf); err != nil {
		t.Fatal(err)
	}

	_, ts := newTestServer(t)
	var stats statsResponse
	status := do(t, ts, "POST", "/sessions", createRequest{Snapshot: json.RawMessage(buf.Bytes())}, &stats)
	if status != http.StatusCreated || stats.Design != "snap" {
		t.Errorf("status = %d, design = %q, want 201, snap", status, stats.Design)
	}
}

func TestUnknownSession(t *testing.T) {
	_, ts := newTestServer(t)
	for _, path := range []string{"/sessions/nope", "/sessions/nope/hpwl", "/sessions/nope/next"} {
		var body errorBody
		if status := do(t, ts, "GET", path, nil, &body); status != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, status)
		}
		if body.Error.Code != errs.ErrCodeSessionNotFound {
			t.Errorf("GET %s code = %s, want SESSION_NOT_FOUND", path, body.Error.Code)
		}
	}
}

func TestPlaceAndReset(t *testing.T) {
	_, ts := newTestServer(t)
	id := create(t, ts)
	x, y, rot := 30.0, 12.0, 450.0

	var placed placeResponse
	status := do(t, ts, "POST", "/sessions/"+id+"/nodes/R1/place", placeRequest{X: &x, Y: &y, Orientation: &rot, Confirm: true}, &placed)
	if status != http.StatusOK {
		t.Fatalf("place status = %d, want 200", status)
	}
	if !placed.Node.Placed || placed.Node.X != 30 || placed.Node.Orientation != 90 || placed.Placed != 1 {
		t.Errorf("place response = %+v", placed)
	}

	var body errorBody
	status = do(t, ts, "POST", "/sessions/"+id+"/nodes/1/place", placeRequest{Confirm: true}, &body)
	if status != http.StatusConflict || body.Error.Code != errs.ErrCodeAlreadyPlaced {
		t.Errorf("second place = %d %s, want 409 ALREADY_PLACED", status, body.Error.Code)
	}

	status = do(t, ts, "POST", "/sessions/"+id+"/nodes/R9/place", placeRequest{Confirm: true}, &body)
	if status != http.StatusNotFound {
		t.Errorf("place unknown node status = %d, want 404", status)
	}

	status = do(t, ts, "POST", "/sessions/"+id+"/nodes/U1/place", placeRequest{X: &x}, &body)
	if status != http.StatusBadRequest {
		t.Errorf("place with x only status = %d, want 400", status)
	}

	var stats statsResponse
	do(t, ts, "POST", "/sessions/"+id+"/reset", nil, &stats)
	if stats.Placed != 0 {
		t.Errorf("Placed after reset = %d, want 0", stats.Placed)
	}
}

func TestNext(t *testing.T) {
	_, ts := newTestServer(t)
	id := create(t, ts)

	var next nextResponse
	do(t, ts, "GET", "/sessions/"+id+"/next?ordering=area", nil, &next)
	if next.Done || next.ID == nil || *next.ID != 3 || next.Name != "J1" {
		t.Errorf("next by area = %+v, want J1 (3)", next)
	}

	do(t, ts, "GET", "/sessions/"+id+"/next", nil, &next)
	if next.Ordering != "connection_density" || next.ID == nil || *next.ID != 0 {
		t.Errorf("next by default = %+v, want U1 (0) by connection_density", next)
	}

	var body errorBody
	if status := do(t, ts, "GET", "/sessions/"+id+"/next?ordering=random", nil, &body); status != http.StatusBadRequest {
		t.Errorf("bad ordering status = %d, want 400", status)
	}
	if body.Error.Code != errs.ErrCodeInvalidOrdering {
		t.Errorf("bad ordering code = %s, want INVALID_ORDERING", body.Error.Code)
	}
}

func TestHPWL(t *testing.T) {
	_, ts := newTestServer(t)
	id := create(t, ts)

	var resp hpwlResponse
	do(t, ts, "GET", "/sessions/"+id+"/hpwl", nil, &resp)
	if resp.HPWL != 0 || resp.All == nil || *resp.All <= 0 || resp.Full == nil || *resp.Full < *resp.All {
		t.Errorf("graph hpwl = %+v", resp)
	}

	do(t, ts, "GET", "/sessions/"+id+"/hpwl?net=SIG_A", nil, &resp)
	if resp.OK || resp.HPWL != -1 {
		t.Errorf("placed-only SIG_A = %+v, want insufficient points", resp)
	}
	do(t, ts, "GET", "/sessions/"+id+"/hpwl?net=SIG_A&unplaced=true", nil, &resp)
	if !resp.OK || resp.HPWL <= 0 {
		t.Errorf("SIG_A with unplaced = %+v", resp)
	}

	var body errorBody
	if status := do(t, ts, "GET", "/sessions/"+id+"/hpwl?net=NOPE", nil, &body); status != http.StatusNotFound {
		t.Errorf("unknown net status = %d, want 404", status)
	}

	do(t, ts, "GET", "/sessions/"+id+"/hpwl?instance=U1", nil, &resp)
	if resp.Instance == nil || *resp.Instance != 0 || !resp.OK {
		t.Errorf("instance hpwl = %+v", resp)
	}
}

func TestFeatures(t *testing.T) {
	_, ts := newTestServer(t)
	id := create(t, ts)

	var resp featuresResponse
	if status := do(t, ts, "GET", "/sessions/"+id+"/nodes/0/features?k=2", nil, &resp); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(resp.Vector) != feature.Width(2, false) || len(resp.Header) != len(resp.Vector) {
		t.Errorf("len(vector) = %d, len(header) = %d, want %d", len(resp.Vector), len(resp.Header), feature.Width(2, false))
	}
	if resp.Cached {
		t.Error("first request should not be served from cache")
	}
	first := resp.Vector

	do(t, ts, "GET", "/sessions/"+id+"/nodes/U1/features?k=2", nil, &resp)
	if !resp.Cached {
		t.Error("second request should be served from cache")
	}
	for i := range first {
		if resp.Vector[i] != first[i] {
			t.Errorf("cached vector[%d] = %v, want %v", i, resp.Vector[i], first[i])
		}
	}

	do(t, ts, "GET", "/sessions/"+id+"/nodes/0/features?k=1&simplified=true", nil, &resp)
	if len(resp.Vector) != feature.Width(1, true) || !resp.Simplified {
		t.Errorf("simplified response = %+v", resp)
	}

	var body errorBody
	for _, q := range []string{"k=0", "k=x", "simplified=maybe"} {
		if status := do(t, ts, "GET", "/sessions/"+id+"/nodes/0/features?"+q, nil, &body); status != http.StatusBadRequest {
			t.Errorf("features?%s status = %d, want 400", q, status)
		}
	}
}

func TestDelete(t *testing.T) {
	_, ts := newTestServer(t)
	id := create(t, ts)

	if status := do(t, ts, "DELETE", "/sessions/"+id, nil, nil); status != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", status)
	}
	if status := do(t, ts, "DELETE", "/sessions/"+id, nil, &errorBody{}); status != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", status)
	}
}

func TestHealthAndVersion(t *testing.T) {
	_, ts := newTestServer(t)
	var health map[string]string
	if status := do(t, ts, "GET", "/healthz", nil, &health); status != http.StatusOK || health["status"] != "ok" {
		t.Errorf("healthz = %d %v", status, health)
	}
	var version map[string]string
	do(t, ts, "GET", "/version", nil, &version)
	if version["record_version"] == "" {
		t.Error("version should report the record version")
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[errs.Code]int{
		errs.ErrCodeMalformedRecord: http.StatusBadRequest,
		errs.ErrCodeNodeNotFound:    http.StatusNotFound,
		errs.ErrCodeAlreadyPlaced:   http.StatusConflict,
		errs.ErrCodeStore:           http.StatusBadGateway,
		errs.ErrCodeInternal:        http.StatusInternalServerError,
		"":                          http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%q) = %d, want %d", code, got, want)
		}
	}
}

func TestWriteErrorPlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("boom"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
