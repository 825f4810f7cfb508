package clip

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/decker502/pedanim/internal/ifp"
	"github.com/decker502/pedanim/pkg/config"
	"github.com/decker502/pedanim/pkg/skeleton"
)

const testArchive = `<ifp name="ped">
  <anim name="walk_civi">
    <bone name="Root"><k t="0" x="0" y="0" z="0"/><k t="1" y="2"/></bone>
    <bone name="Pelvis"><k t="0" rw="1"/></bone>
    <bone name="Tail"><k t="0" x="1"/></bone>
  </anim>
</ifp>`

type fakeArchives struct {
	archive *ifp.Archive
	err     error
	calls   int
}

func (f *fakeArchives) LoadArchive(fileName string) (*ifp.Archive, error) {
	f.calls++
	return f.archive, f.err
}

func testFrames(t *testing.T) *skeleton.FrameContainer {
	t.Helper()
	mm, err := config.NewModelManagerFromDefs(&config.ModelDef{
		Name: "male01",
		Frames: []config.FrameDef{
			{Name: "Root"},
			{Name: "Pelvis", Parent: "Root", Offset: []float64{0, 0, 1}},
		},
	})
	if err != nil {
		t.Fatalf("build models: %v", err)
	}
	frames, err := skeleton.NewModelAttacher(mm).Attach("male01", nil, nil)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	return frames
}

func testSource(t *testing.T) *fakeArchives {
	t.Helper()
	archive, err := ifp.Parse([]byte(testArchive))
	if err != nil {
		t.Fatalf("parse archive: %v", err)
	}
	return &fakeArchives{archive: archive}
}

func TestIFPLoader_Load(t *testing.T) {
	frames := testFrames(t)
	loader := NewIFPLoader(testSource(t))

	c, err := loader.Load("ped.ifp", "walk_civi", frames)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Name != "walk_civi" || c.FileName != "ped.ifp" {
		t.Errorf("Unexpected clip identity: %s/%s", c.FileName, c.Name)
	}
	if c.Length != 1 || !c.Loop {
		t.Errorf("Expected looping clip of length 1, got length=%v loop=%v", c.Length, c.Loop)
	}
	if len(c.Curves) != 2 {
		t.Errorf("Expected 2 bound curves, got %d", len(c.Curves))
	}
	if len(c.UnboundBones) != 1 || c.UnboundBones[0] != "Tail" {
		t.Errorf("Expected Tail to be unbound, got %v", c.UnboundBones)
	}
	if !c.Valid() {
		t.Error("Expected clip to be valid while skeleton is alive")
	}

	frames.Destroy()
	if c.Valid() {
		t.Error("Expected clip to be invalid after skeleton destroyed")
	}
}

func TestIFPLoader_Errors(t *testing.T) {
	t.Run("片段不存在", func(t *testing.T) {
		_, err := NewIFPLoader(testSource(t)).Load("ped.ifp", "missing", testFrames(t))
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("Expected not found error, got %v", err)
		}
	})

	t.Run("档案加载失败", func(t *testing.T) {
		sentinel := errors.New("boom")
		_, err := NewIFPLoader(&fakeArchives{err: sentinel}).Load("ped.ifp", "walk_civi", testFrames(t))
		if !errors.Is(err, sentinel) {
			t.Errorf("Expected wrapped sentinel error, got %v", err)
		}
	})

	t.Run("骨骼已销毁", func(t *testing.T) {
		source := testSource(t)
		frames := testFrames(t)
		frames.Destroy()
		if _, err := NewIFPLoader(source).Load("ped.ifp", "walk_civi", frames); err == nil {
			t.Error("Expected error for destroyed skeleton")
		}
		if source.calls != 0 {
			t.Errorf("Expected no archive access, got %d calls", source.calls)
		}
	})
}

func TestClip_Sample(t *testing.T) {
	c, err := NewIFPLoader(testSource(t)).Load("ped.ifp", "walk_civi", testFrames(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name  string
		t     float64
		wantY float64
	}{
		{"起点", 0, 0},
		{"中点", 0.5, 1},
		{"终点", 1, 2},
		{"超出范围被限制", 3, 2},
		{"负时间被限制", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poses := c.Sample(tt.t, nil)
			if len(poses) != 2 {
				t.Fatalf("Expected 2 poses, got %d", len(poses))
			}
			root := poses[0]
			if root.Frame.Name != "Root" || !root.HasPosition {
				t.Fatalf("Unexpected root pose: %+v", root)
			}
			if math.Abs(root.Position.Y-tt.wantY) > 1e-9 {
				t.Errorf("Expected Y=%v, got %v", tt.wantY, root.Position.Y)
			}
			if poses[1].HasPosition {
				t.Error("Expected pelvis pose without position")
			}
		})
	}
}
