package landmarks

import (
	"math"
	"testing"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestDistance(t *testing.T) {
	a := Landmark{X: 0, Y: 0}
	b := Landmark{X: 3, Y: 4}

	if d := Distance(a, b); !floatEquals(d, 5) {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := Distance(a, a); !floatEquals(d, 0) {
		t.Errorf("Distance(a, a) = %v, want 0", d)
	}
}

func TestJointAngle(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Landmark
		want    float64
	}{
		{
			name: "right angle",
			a:    Landmark{X: 1, Y: 0},
			b:    Landmark{X: 0, Y: 0},
			c:    Landmark{X: 0, Y: 1},
			want: 90,
		},
		{
			name: "straight arm",
			a:    Landmark{X: 0, Y: 0},
			b:    Landmark{X: 1, Y: 0},
			c:    Landmark{X: 2, Y: 0},
			want: 180,
		},
		{
			name: "folded back",
			a:    Landmark{X: 1, Y: 0},
			b:    Landmark{X: 0, Y: 0},
			c:    Landmark{X: 1, Y: 0},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JointAngle(tt.a, tt.b, tt.c)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("JointAngle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJointAngle_NeverNaN(t *testing.T) {
	// Collinear points can push the cosine past ±1 in floating point;
	// the clamp must keep Acos in domain.
	a := Landmark{X: 0.1, Y: 0.1}
	b := Landmark{X: 0.2, Y: 0.2}
	c := Landmark{X: 0.3, Y: 0.3}

	if got := JointAngle(a, b, c); math.IsNaN(got) {
		t.Error("JointAngle = NaN for collinear points")
	}

	// Degenerate: coincident points.
	if got := JointAngle(a, a, a); got != 0 {
		t.Errorf("JointAngle(a, a, a) = %v, want 0", got)
	}
}

func TestSetValid(t *testing.T) {
	if (Set{}).Valid(PoseCount) {
		t.Error("empty set Valid = true, want false")
	}
	s := make(Set, PoseCount)
	if !s.Valid(PoseCount) {
		t.Error("full-length set Valid = false, want true")
	}
	if s.Valid(HandCount) {
		t.Error("pose-length set Valid(HandCount) = true, want false")
	}
}

func TestSetClone_Independent(t *testing.T) {
	s := Set{{X: 0.5}}
	c := s.Clone()
	c[0].X = 0.9

	if s[0].X != 0.5 {
		t.Errorf("original mutated through clone: X = %v, want 0.5", s[0].X)
	}
	if Set(nil).Clone() != nil {
		t.Error("Clone(nil) != nil")
	}
}

func TestBuffer_EvictsOldest(t *testing.T) {
	b := NewBuffer(3)
	for i := 0; i < 5; i++ {
		b.Push(Set{{X: float64(i)}})
	}

	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}
	// Oldest-first: 2, 3, 4 remain.
	for i := 0; i < 3; i++ {
		if got := b.At(i)[0].X; got != float64(i+2) {
			t.Errorf("At(%d).X = %v, want %v", i, got, float64(i+2))
		}
	}
}

func TestBuffer_PushCopies(t *testing.T) {
	b := NewBuffer(2)
	s := Set{{X: 0.1}}
	b.Push(s)
	s[0].X = 0.9

	if got := b.At(0)[0].X; got != 0.1 {
		t.Errorf("buffered set mutated through caller slice: X = %v, want 0.1", got)
	}
}

func TestBuffer_EachOldestFirst(t *testing.T) {
	b := NewBuffer(4)
	for i := 0; i < 4; i++ {
		b.Push(Set{{X: float64(i)}})
	}

	var seen []float64
	b.Each(func(s Set) { seen = append(seen, s[0].X) })

	for i, x := range seen {
		if x != float64(i) {
			t.Errorf("Each order[%d] = %v, want %v", i, x, float64(i))
		}
	}
}
