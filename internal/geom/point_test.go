package geom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPointAddSub(t *testing.T) {
	tests := []struct {
		name string
		p, q Point
		want Offset
	}{
		{"zero", Point{}, Point{}, Offset{}},
		{"positive", Point{5, 7, 9}, Point{1, 2, 3}, Offset{4, 5, 6}},
		{"negative", Point{-618, -824, -621}, Point{686, 422, 578}, Offset{-1304, -1246, -1199}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Sub(tt.q)
			if got != tt.want {
				t.Fatalf("Sub = %v, want %v", got, tt.want)
			}
			if back := tt.q.Add(got); back != tt.p {
				t.Errorf("q.Add(p.Sub(q)) = %v, want %v", back, tt.p)
			}
		})
	}
}

func TestOffsetManhattan(t *testing.T) {
	tests := []struct {
		o    Offset
		want int
	}{
		{Offset{}, 0},
		{Offset{1, -2, 3}, 6},
		{Offset{-1197, 1175, -1249}, 3621},
	}
	for _, tt := range tests {
		if got := tt.o.Manhattan(); got != tt.want {
			t.Errorf("%v.Manhattan() = %d, want %d", tt.o, got, tt.want)
		}
		if got := tt.o.Neg().Manhattan(); got != tt.want {
			t.Errorf("%v.Neg().Manhattan() = %d, want %d", tt.o, got, tt.want)
		}
	}
}

func TestOffsetAddNeg(t *testing.T) {
	o := Offset{3, -4, 5}
	if got := o.Add(o.Neg()); got != (Offset{}) {
		t.Errorf("o + -o = %v, want zero", got)
	}
	if got := o.Sub(Offset{1, 1, 1}); got != (Offset{2, -5, 4}) {
		t.Errorf("Sub = %v", got)
	}
	if got := o.Point(); got != (Point{3, -4, 5}) {
		t.Errorf("Point() = %v", got)
	}
}

func TestTranslateCopies(t *testing.T) {
	in := []Point{{1, 1, 1}, {2, 2, 2}}
	out := Translate(in, Offset{10, 0, -1})

	want := []Point{{11, 1, 0}, {12, 2, 1}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Translate mismatch (-want +got):\n%s", diff)
	}
	if in[0] != (Point{1, 1, 1}) {
		t.Errorf("input mutated: %v", in)
	}
}

func TestPointSet(t *testing.T) {
	s := NewPointSet([]Point{{1, 2, 3}, {0, 0, 0}}, []Point{{1, 2, 3}, {-1, 5, 5}})
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if !s.Contains(Point{1, 2, 3}) {
		t.Error("expected set to contain 1,2,3")
	}
	if s.Contains(Point{3, 2, 1}) {
		t.Error("unexpected member 3,2,1")
	}

	want := []Point{{-1, 5, 5}, {0, 0, 0}, {1, 2, 3}}
	if diff := cmp.Diff(want, s.Sorted()); diff != "" {
		t.Errorf("Sorted mismatch (-want +got):\n%s", diff)
	}
}

func TestPointString(t *testing.T) {
	if got := (Point{-1, 0, 2}).String(); got != "-1,0,2" {
		t.Errorf("String = %q", got)
	}
}
