package router

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		in   string
		want Route
	}{
		{"", Route{Name: Home}},
		{"#", Route{Name: Home}},
		{"#/", Route{Name: Home}},
		{"#/saved", Route{Name: Saved}},
		{"#/saved/", Route{Name: Saved}},
		{"/about", Route{Name: About}},
		{"#/job/42", Route{Name: Detail, JobID: "42"}},
		{"#/job/backend%20dev", Route{Name: Detail, JobID: "backend dev"}},
		{"#/job/", Route{Name: Home}},
		{"#/job/a/b", Route{Name: Home}},
		{"#/nowhere", Route{Name: Home}},
		{"#/saved?x=1", Route{Name: Saved}},
	}
	for _, tt := range tests {
		got := Resolve(tt.in)
		if got != tt.want {
			t.Fatalf("Resolve(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRoute_FragmentRoundTrip(t *testing.T) {
	for _, r := range []Route{
		{Name: Home},
		{Name: Saved},
		{Name: About},
		{Name: Detail, JobID: "a b/c"},
	} {
		if got := Resolve(r.Fragment()); got != r {
			t.Fatalf("round trip %+v -> %q -> %+v", r, r.Fragment(), got)
		}
	}
}
