package value

import (
	"encoding/json"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLerpNumberExact(t *testing.T) {
	tests := []struct {
		a, b, t  float64
		expected float64
	}{
		{0, 100, 0.5, 50},
		{0, 100, 0, 0},
		{0, 100, 1, 100},
		{0, 100, 0.625, 62.5},
		{-20, 20, 0.25, -10},
	}

	for _, tt := range tests {
		got := Lerp(Number(tt.a), Number(tt.b), tt.t).Float()
		if got != tt.expected {
			t.Errorf("Lerp(%v, %v, %v) = %v, expected %v", tt.a, tt.b, tt.t, got, tt.expected)
		}
	}
}

func TestLerpEndpointsReturnAuthoredValues(t *testing.T) {
	a, b := Number(0.1), Number(0.3)
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("t=1 should return b exactly, got %v", got)
	}
	if got := Lerp(a, b, 0); got != a {
		t.Errorf("t=0 should return a exactly, got %v", got)
	}
}

func TestLerpVectorAxesIndependent(t *testing.T) {
	got := Lerp(Vec2(0, 100), Vec2(100, 0), 0.5).Vector()
	if got.X != 50 || got.Y != 50 || got.HasZ {
		t.Errorf("Expected {50 50}, got %v", got)
	}
}

func TestLerpVectorWidening(t *testing.T) {
	a := Vec2(0, 0)
	b := Vec3(10, 10, 100)

	mid := Lerp(a, b, 0.5).Vector()
	if !mid.HasZ {
		t.Fatal("Expected widened vector to carry z")
	}
	if mid.Z != 50 {
		t.Errorf("Expected z to fade in proportionally, got %v", mid.Z)
	}

	start := Lerp(a, b, 0).Vector()
	if start.HasZ {
		t.Error("At t=0 the 2D keyframe should be returned unchanged")
	}

	back := Lerp(b, a, 0.25).Vector()
	if !back.HasZ || back.Z != 75 {
		t.Errorf("Expected z=75 fading out, got %v", back)
	}
}

func TestColorParseAndFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"#ff0000", "#ff0000"},
		{"#F00", "#ff0000"},
		{"#00ff0080", "#00ff0080"},
		{"#0f08", "#00ff0088"},
	}

	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if err != nil {
			t.Fatalf("ParseColor(%q) failed: %v", tt.in, err)
		}
		if c.Hex() != tt.expected {
			t.Errorf("ParseColor(%q).Hex() = %q, expected %q", tt.in, c.Hex(), tt.expected)
		}
	}

	for _, bad := range []string{"ff0000", "#ff00000", "#gg0000", "#12345"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestLerpColorByteSpace(t *testing.T) {
	got := Lerp(MustHex("#000000"), MustHex("#ff0080"), 0.5).Color()
	if got.R != 128 || got.G != 0 || got.B != 64 {
		t.Errorf("Expected (128,0,64), got (%d,%d,%d)", got.R, got.G, got.B)
	}
	if got.HasAlpha {
		t.Error("Alpha should not appear when neither side authored it")
	}

	overshoot := Lerp(MustHex("#000000"), MustHex("#ffffff"), 1.2).Color()
	if overshoot.R != 255 {
		t.Errorf("Expected overshoot to clamp at 255, got %d", overshoot.R)
	}
}

func TestLerpStepPolicy(t *testing.T) {
	a, b := Step("left"), Step("right")
	if Lerp(a, b, 0.49) != a {
		t.Error("Expected a before the midpoint")
	}
	if Lerp(a, b, 0.5) != b {
		t.Error("Expected b at the midpoint")
	}

	// mismatched kinds fall back to the same policy
	if Lerp(Number(1), Vec2(1, 1), 0.2) != Number(1) {
		t.Error("Expected mismatched kinds to step")
	}
}

func TestDelta(t *testing.T) {
	if d := Delta(Number(10), Number(4)); d != -6 {
		t.Errorf("Expected signed delta -6, got %v", d)
	}
	if d := Delta(Vec2(0, 0), Vec2(3, 4)); d != 5 {
		t.Errorf("Expected vector distance 5, got %v", d)
	}
	if d := Delta(MustHex("#000000"), MustHex("#102030")); d != 0x30 {
		t.Errorf("Expected max channel delta 48, got %v", d)
	}
	if d := Delta(Step("a"), Step("b")); d != 0 {
		t.Errorf("Expected 0 for steps, got %v", d)
	}
}

func TestFinite(t *testing.T) {
	if Number(math.NaN()).Finite() {
		t.Error("NaN should not be finite")
	}
	if Vec3(0, math.Inf(1), 0).Finite() {
		t.Error("Inf axis should not be finite")
	}
	if !MustHex("#123456").Finite() {
		t.Error("Colours are always finite")
	}
}

func TestYAMLDecode(t *testing.T) {
	doc := `
num: 12.5
int: 3
color: "#ff8800"
vec: {x: 1, y: 2}
vec3: [1, 2, 3]
label: hello
`
	var out map[string]Value
	if err := yaml.Unmarshal([]byte(doc), &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	expected := map[string]Value{
		"num":   Number(12.5),
		"int":   Number(3),
		"color": MustHex("#ff8800"),
		"vec":   Vec2(1, 2),
		"vec3":  Vec3(1, 2, 3),
		"label": Step("hello"),
	}
	for k, want := range expected {
		if out[k] != want {
			t.Errorf("%s: expected %v (%s), got %v (%s)", k, want, want.Kind(), out[k], out[k].Kind())
		}
	}
}

func TestYAMLRejectsBadVector(t *testing.T) {
	var v Value
	if err := yaml.Unmarshal([]byte(`[1, 2, 3, 4]`), &v); err == nil {
		t.Error("Expected error for 4-component vector")
	}
}

func TestJSONEncode(t *testing.T) {
	data, err := json.Marshal([]Value{Number(1.5), Vec2(1, 2), MustHex("#abcdef"), Step("on")})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	expected := `[1.5,{"x":1,"y":2},"#abcdef","on"]`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}

func TestConvertsTo(t *testing.T) {
	tests := []struct {
		v    Value
		k    Kind
		want bool
	}{
		{Number(1), KindNumber, true},
		{Number(1), KindVector, true},
		{Vec2(1, 2), KindVector, true},
		{Vec2(1, 2), KindNumber, false},
		{MustHex("#fff"), KindVector, false},
		{MustHex("#fff"), KindColor, true},
		{Step("a"), KindNumber, false},
		{Step("a"), KindStep, true},
	}

	for _, tt := range tests {
		if got := tt.v.ConvertsTo(tt.k); got != tt.want {
			t.Errorf("%v.ConvertsTo(%v) = %v, want %v", tt.v, tt.k, got, tt.want)
		}
	}
}
