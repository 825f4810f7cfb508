package skeleton

import (
	"math"
	"testing"

	"github.com/decker502/pedanim/pkg/config"
)

func testModels(t *testing.T) *config.ModelManager {
	t.Helper()
	mm, err := config.NewModelManagerFromDefs(&config.ModelDef{
		Name: "male01",
		Frames: []config.FrameDef{
			{Name: "Root"},
			{Name: "Pelvis", Parent: "Root", Offset: []float64{0, 0, 1}},
			{Name: "Head", Parent: "Pelvis", Offset: []float64{0, 0, 0.6}},
		},
	})
	if err != nil {
		t.Fatalf("build models: %v", err)
	}
	return mm
}

func TestAttach(t *testing.T) {
	attacher := NewModelAttacher(testModels(t))
	holder := NewFrame("ped")

	frames, err := attacher.Attach("male01", []string{"male01"}, holder)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if frames.Len() != 3 {
		t.Fatalf("Expected 3 frames, got %d", frames.Len())
	}
	if frames.Origin.Parent != holder || len(holder.Children) != 1 {
		t.Error("Expected origin to be attached under holder")
	}

	root, ok := frames.GetByName("Root")
	if !ok {
		t.Fatal("Expected Root frame")
	}
	if root.Parent != frames.Origin {
		t.Error("Expected Root to be parented to origin")
	}

	head, _ := frames.GetByName("Head")
	if got := head.WorldPosition(); math.Abs(got.Z-1.6) > 1e-9 {
		t.Errorf("Expected head world Z 1.6, got %v", got.Z)
	}

	if _, ok := frames.GetByName("Tail"); ok {
		t.Error("Expected missing frame lookup to fail")
	}

	if _, err := attacher.Attach("nope", nil, nil); err == nil {
		t.Error("Expected error for unknown model")
	}
}

func TestDestroy(t *testing.T) {
	attacher := NewModelAttacher(testModels(t))
	holder := NewFrame("ped")

	frames, err := attacher.Attach("male01", nil, holder)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	pelvis, _ := frames.GetByName("Pelvis")

	frames.Destroy()
	frames.Destroy() // idempotent

	if !frames.Destroyed() || !pelvis.Destroyed() {
		t.Error("Expected all frames to be destroyed")
	}
	if len(holder.Children) != 0 {
		t.Errorf("Expected origin to be detached, holder has %d children", len(holder.Children))
	}
}

func TestResetPose(t *testing.T) {
	frames, err := NewModelAttacher(testModels(t)).Attach("male01", nil, nil)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	pelvis, _ := frames.GetByName("Pelvis")
	pelvis.LocalPosition = Vec3{5, 5, 5}
	pelvis.LocalVelocity = Vec3{1, 0, 0}

	frames.ResetPose()

	if pelvis.LocalPosition != (Vec3{0, 0, 1}) || pelvis.LocalVelocity != (Vec3{}) {
		t.Errorf("Expected bind pose, got pos=%v vel=%v", pelvis.LocalPosition, pelvis.LocalVelocity)
	}
}

func TestQuat(t *testing.T) {
	// 绕 Z 轴旋转 90 度
	s := math.Sqrt(0.5)
	q := Quat{0, 0, s, s}
	v := q.Rotate(Vec3{1, 0, 0})
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-1) > 1e-9 {
		t.Errorf("Expected (0,1,0), got %v", v)
	}

	mid := IdentityQuat().Nlerp(q, 0.5)
	if math.Abs(mid.Dot(mid)-1) > 1e-9 {
		t.Errorf("Expected normalized quaternion, got %v", mid)
	}

	if (Quat{}).Normalize() != IdentityQuat() {
		t.Error("Expected zero quaternion to normalize to identity")
	}
}
