package keyframe

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ivlev/keyframes/internal/value"
)

func track(frames ...int) []Keyframe {
	kfs := make([]Keyframe, len(frames))
	for i, f := range frames {
		kfs[i] = New(f, value.Number(float64(f)))
	}
	return kfs
}

func TestLocateBoundaries(t *testing.T) {
	kfs := track(0, 10, 20)

	tests := []struct {
		frame    float64
		position Position
		a, b     int
		t        float64
	}{
		{-100, BeforeFirst, 0, 0, 0},
		{-0.5, BeforeFirst, 0, 0, 0},
		{0, Between, 0, 10, 0},
		{5, Between, 0, 10, 0.5},
		{10, Between, 10, 20, 0},
		{12.5, Between, 10, 20, 0.25},
		{20, AfterLast, 20, 20, 0},
		{1e9, AfterLast, 20, 20, 0},
	}

	for _, tt := range tests {
		seg, ok := Locate(kfs, tt.frame)
		if !ok {
			t.Fatalf("Locate(%v) reported empty track", tt.frame)
		}
		if seg.Position != tt.position || seg.A.Frame != tt.a || seg.B.Frame != tt.b || seg.T != tt.t {
			t.Errorf("Locate(%v) = %s(%d,%d,%v), expected %s(%d,%d,%v)",
				tt.frame, seg.Position, seg.A.Frame, seg.B.Frame, seg.T,
				tt.position, tt.a, tt.b, tt.t)
		}
	}
}

func TestLocateEmptyAndSingle(t *testing.T) {
	if _, ok := Locate(nil, 3); ok {
		t.Error("Expected empty track to report false")
	}

	single := track(7)
	for _, f := range []float64{-50, 0, 7, 8, 1e6} {
		seg, ok := Locate(single, f)
		if !ok {
			t.Fatal("Expected single keyframe to be located")
		}
		if seg.A.Frame != 7 || seg.B.Frame != 7 || seg.Position == Between {
			t.Errorf("Locate(%v) on single keyframe gave %s(%d,%d)", f, seg.Position, seg.A.Frame, seg.B.Frame)
		}
	}
}

func TestLocateNaN(t *testing.T) {
	seg, _ := Locate(track(0, 10), math.NaN())
	if seg.Position != BeforeFirst {
		t.Errorf("Expected NaN frame to resolve BeforeFirst, got %s", seg.Position)
	}
}

func TestLocateMatchesLinearScan(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		n := r.Intn(12)
		frames := make([]int, 0, n)
		f := r.Intn(20) - 10
		for i := 0; i < n; i++ {
			frames = append(frames, f)
			// zero steps produce duplicate frames
			f += r.Intn(4)
		}
		kfs := track(frames...)

		for q := 0; q < 50; q++ {
			frame := r.Float64()*80 - 30
			if q%5 == 0 && n > 0 {
				frame = float64(frames[r.Intn(n)])
			}

			got, okA := Locate(kfs, frame)
			want, okB := LocateLinear(kfs, frame)
			if okA != okB || got.Position != want.Position || got.A.Frame != want.A.Frame ||
				got.B.Frame != want.B.Frame || got.T != want.T {
				t.Fatalf("frames=%v frame=%v: binary %s(%d,%d,%v) vs linear %s(%d,%d,%v)",
					frames, frame, got.Position, got.A.Frame, got.B.Frame, got.T,
					want.Position, want.A.Frame, want.B.Frame, want.T)
			}
			if got.Position == Between && (got.T < 0 || got.T >= 1) {
				t.Fatalf("T out of range: %v", got.T)
			}
		}
	}
}

func TestPropertyInsertKeepsOrder(t *testing.T) {
	var p Property
	for _, f := range []int{30, 10, 20, 0, 25} {
		p.Insert(New(f, value.Number(float64(f))))
	}
	if !p.Sorted() {
		t.Fatalf("Expected sorted keyframes, got %v", frames(p))
	}
	for _, kf := range p.Keyframes {
		if kf.ID == "" {
			t.Error("Insert should assign an ID")
		}
	}
}

func TestPropertyInsertLastWriteWins(t *testing.T) {
	var p Property
	p.Insert(New(10, value.Number(1)))
	p.Insert(New(10, value.Number(2)))

	if len(p.Keyframes) != 1 {
		t.Fatalf("Expected 1 keyframe, got %d", len(p.Keyframes))
	}
	if p.Keyframes[0].Value != value.Number(2) {
		t.Errorf("Expected the later keyframe to win, got %v", p.Keyframes[0].Value)
	}
}

func TestPropertyMoveRemoveSetValue(t *testing.T) {
	var p Property
	a := p.Insert(New(0, value.Number(0)))
	b := p.Insert(New(10, value.Number(10)))
	c := p.Insert(New(20, value.Number(20)))

	if !p.Move(a.ID, 15) {
		t.Fatal("Move failed")
	}
	if got := frames(p); got[0] != 10 || got[1] != 15 || got[2] != 20 {
		t.Errorf("Expected [10 15 20] after move, got %v", got)
	}

	// moving onto an occupied frame displaces the occupant
	if !p.Move(b.ID, 20) {
		t.Fatal("Move failed")
	}
	if len(p.Keyframes) != 2 {
		t.Fatalf("Expected displaced keyframe to be dropped, got %v", frames(p))
	}
	if _, ok := p.Find(c.ID); ok {
		t.Error("Expected displaced keyframe to be gone")
	}

	if !p.SetValue(b.ID, value.Number(99)) {
		t.Fatal("SetValue failed")
	}
	if kf, _ := p.At(20); kf.Value != value.Number(99) {
		t.Errorf("Expected value 99 at frame 20, got %v", kf.Value)
	}

	if !p.Remove(a.ID) || p.Remove(a.ID) {
		t.Error("Remove should succeed once")
	}
	if p.Move("missing", 3) || p.SetValue("missing", value.Number(0)) {
		t.Error("Operations on unknown IDs should report false")
	}
}

func TestNormalize(t *testing.T) {
	p := Property{
		Animated: true,
		Keyframes: []Keyframe{
			{Frame: 20, Value: value.Number(2)},
			{Frame: 0, Value: value.Number(0)},
			{Frame: 20, Value: value.Number(3)},
			{Frame: 10, Value: value.Number(1), Interpolation: Hold},
		},
	}
	p.Normalize()

	if got := frames(p); len(got) != 3 || got[0] != 0 || got[1] != 10 || got[2] != 20 {
		t.Fatalf("Expected [0 10 20], got %v", got)
	}
	if p.Keyframes[2].Value != value.Number(3) {
		t.Errorf("Expected the later duplicate to win, got %v", p.Keyframes[2].Value)
	}
	if p.Keyframes[0].Interpolation != Linear || p.Keyframes[1].Interpolation != Hold {
		t.Error("Expected default interpolation to fill only missing entries")
	}
}

func TestIsAnimated(t *testing.T) {
	if Static(value.Number(1)).IsAnimated() {
		t.Error("Static property should not be animated")
	}
	if (Property{Animated: true}).IsAnimated() {
		t.Error("Animated flag without keyframes should not be animated")
	}
	if !Animated(value.Number(0), New(0, value.Number(1))).IsAnimated() {
		t.Error("Expected animated property")
	}
}

func frames(p Property) []int {
	out := make([]int, len(p.Keyframes))
	for i, kf := range p.Keyframes {
		out[i] = kf.Frame
	}
	return out
}
