package display

import (
	"testing"

	"github.com/gogpu/scenepaint"
)

func TestListBounds(t *testing.T) {
	l := NewList(1, 1)
	l.Push(
		RectItem{Rect: scenepaint.XYWH(0, 0, 10, 10)},
		RectItem{Rect: scenepaint.XYWH(50, 50, 10, 10)},
		PopClipItem{}, // structural, empty bounds
	)

	got := l.Bounds()
	want := scenepaint.Rect{MinX: 0, MinY: 0, MaxX: 60, MaxY: 60}
	if got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
}

func TestFindLayer(t *testing.T) {
	leaf := &StackingContext{Layer: 30}
	tree := &StackingContext{
		Layer: 10,
		Children: []*StackingContext{
			{Layer: 20},
			{Layer: 21, Children: []*StackingContext{leaf}},
		},
	}

	tests := []struct {
		name string
		id   scenepaint.LayerID
		want *StackingContext
	}{
		{"root", 10, tree},
		{"child", 20, tree.Children[0]},
		{"grandchild", 30, leaf},
		{"absent", 99, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.FindLayer(tt.id); got != tt.want {
				t.Errorf("FindLayer(%v) = %p, want %p", tt.id, got, tt.want)
			}
		})
	}
}

func TestFindLayerNilReceiver(t *testing.T) {
	var sc *StackingContext
	if got := sc.FindLayer(1); got != nil {
		t.Errorf("nil.FindLayer() = %v, want nil", got)
	}
}

func TestCountContextsAndItems(t *testing.T) {
	tree := &StackingContext{
		Layer: 1,
		Items: []Item{RectItem{}, RectItem{}},
		Children: []*StackingContext{
			{Layer: 2, Items: []Item{RectItem{}}},
		},
	}
	if got := tree.CountContexts(); got != 2 {
		t.Errorf("CountContexts() = %d, want 2", got)
	}
	if got := tree.CountItems(); got != 3 {
		t.Errorf("CountItems() = %d, want 3", got)
	}
}

func TestGradientKeyTranslationInvariant(t *testing.T) {
	base := GradientItem{
		Rect:      scenepaint.XYWH(0, 0, 100, 50),
		Start:     scenepaint.Point{X: 0, Y: 0},
		End:       scenepaint.Point{X: 100, Y: 0},
		StopCount: 2,
	}
	base.Stops[0] = ColorStop{Offset: 0, Color: scenepaint.RGB(1, 0, 0)}
	base.Stops[1] = ColorStop{Offset: 1, Color: scenepaint.RGB(0, 0, 1)}

	moved := base
	moved.Rect = scenepaint.XYWH(200, 300, 100, 50)
	moved.Start = scenepaint.Point{X: 200, Y: 300}
	moved.End = scenepaint.Point{X: 300, Y: 300}

	if KeyOfGradient(base) != KeyOfGradient(moved) {
		t.Error("translated gradient should produce the same content key")
	}

	resized := base
	resized.Rect = scenepaint.XYWH(0, 0, 100, 60)
	if KeyOfGradient(base) == KeyOfGradient(resized) {
		t.Error("resized gradient should produce a different content key")
	}
}

func TestBorderKeyTranslationInvariant(t *testing.T) {
	a := BorderItem{Rect: scenepaint.XYWH(0, 0, 10, 10), Widths: [4]float32{1, 1, 1, 1}}
	b := BorderItem{Rect: scenepaint.XYWH(40, 40, 10, 10), Widths: [4]float32{1, 1, 1, 1}}
	if KeyOfBorder(a) != KeyOfBorder(b) {
		t.Error("translated border should produce the same content key")
	}
}

func TestLayerKindString(t *testing.T) {
	if LayerCPU.String() != "cpu" || LayerGPU.String() != "gpu" {
		t.Errorf("LayerKind strings = %q, %q", LayerCPU, LayerGPU)
	}
}
