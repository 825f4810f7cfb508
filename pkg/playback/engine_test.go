package playback

import (
	"math"
	"testing"

	"github.com/decker502/pedanim/internal/ifp"
	"github.com/decker502/pedanim/pkg/clip"
	"github.com/decker502/pedanim/pkg/config"
	"github.com/decker502/pedanim/pkg/skeleton"
	"github.com/decker502/pedanim/pkg/types"
)

func testFrames(t *testing.T) *skeleton.FrameContainer {
	t.Helper()
	mm, err := config.NewModelManagerFromDefs(&config.ModelDef{
		Name:   "male01",
		Frames: []config.FrameDef{{Name: "Root"}, {Name: "Pelvis", Parent: "Root", Offset: []float64{0, 0, 1}}},
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

// rootClip 构造只有 Root 轨道的片段：t=0 时 Y=y0，t=length 时 Y=y1
func rootClip(frames *skeleton.FrameContainer, name string, length float64, loop bool, y0, y1 float64) *clip.Clip {
	root, _ := frames.GetByName("Root")
	return &clip.Clip{
		Name:   name,
		Length: length,
		Loop:   loop,
		Frames: frames,
		Curves: []clip.Curve{{
			Frame: root,
			Keys: []ifp.ResolvedKey{
				{T: 0, Position: [3]float64{0, y0, 0}, Rotation: [4]float64{0, 0, 0, 1}, HasPos: true},
				{T: length, Position: [3]float64{0, y1, 0}, Rotation: [4]float64{0, 0, 0, 1}, HasPos: true},
			},
		}},
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEngine_Play(t *testing.T) {
	frames := testFrames(t)

	t.Run("StopAll 停止所有其它状态", func(t *testing.T) {
		e := NewEngine()
		walk := e.AddClip("walk", rootClip(frames, "walk", 1, true, 0, 1))
		idle := e.AddClip("idle", rootClip(frames, "idle", 1, true, 0, 0))
		idle.Layer = 1

		e.Play("idle", types.PlayModeStopAll)
		if !e.Play("walk", types.PlayModeStopAll) {
			t.Fatal("Expected Play to succeed")
		}

		if !walk.Enabled || walk.Weight != 1 {
			t.Errorf("Expected walk enabled at weight 1, got %+v", walk)
		}
		if idle.Enabled {
			t.Error("Expected idle to be stopped")
		}
	})

	t.Run("StopSameLayer 保留其它层", func(t *testing.T) {
		e := NewEngine()
		e.AddClip("walk", rootClip(frames, "walk", 1, true, 0, 1))
		idle := e.AddClip("idle", rootClip(frames, "idle", 1, true, 0, 0))
		idle.Layer = 1

		e.Play("idle", types.PlayModeStopAll)
		e.Play("walk", types.PlayModeStopSameLayer)

		if !idle.Enabled {
			t.Error("Expected idle on another layer to keep playing")
		}
	})

	t.Run("已在播放时不回到开头", func(t *testing.T) {
		e := NewEngine()
		walk := e.AddClip("walk", rootClip(frames, "walk", 1, true, 0, 1))
		e.Play("walk", types.PlayModeStopAll)
		e.Update(0.25)
		e.Play("walk", types.PlayModeStopAll)
		if !approx(walk.Time, 0.25) {
			t.Errorf("Expected time 0.25, got %v", walk.Time)
		}
	})

	t.Run("未注册的状态", func(t *testing.T) {
		if NewEngine().Play("missing", types.PlayModeStopAll) {
			t.Error("Expected Play of missing state to return false")
		}
	})
}

func TestEngine_CrossFade(t *testing.T) {
	frames := testFrames(t)
	e := NewEngine()
	idle := e.AddClip("idle", rootClip(frames, "idle", 1, true, 0, 0))
	run := e.AddClip("run", rootClip(frames, "run", 1, true, 0, 1))

	e.Play("idle", types.PlayModeStopAll)
	e.CrossFade("run", 0.5, types.PlayModeStopAll)

	if !run.Enabled || run.Weight != 0 || !run.IsFading() {
		t.Fatalf("Expected run to start fading in from 0, got %+v", run)
	}

	e.Update(0.25)
	if !approx(run.Weight, 0.5) || !approx(idle.Weight, 0.5) {
		t.Errorf("Expected half-way weights, got run=%v idle=%v", run.Weight, idle.Weight)
	}

	e.Update(0.25)
	if !approx(run.Weight, 1) || run.IsFading() {
		t.Errorf("Expected run fully faded in, got %+v", run)
	}
	if idle.Enabled {
		t.Error("Expected idle to stop once faded out")
	}
}

func TestEngine_CrossFadeZeroLengthActsLikePlay(t *testing.T) {
	frames := testFrames(t)
	e := NewEngine()
	idle := e.AddClip("idle", rootClip(frames, "idle", 1, true, 0, 0))
	run := e.AddClip("run", rootClip(frames, "run", 1, true, 0, 1))

	e.Play("idle", types.PlayModeStopAll)
	e.CrossFade("run", 0, types.PlayModeStopAll)

	if run.Weight != 1 || idle.Enabled {
		t.Errorf("Expected immediate switch, got run=%+v idle=%+v", run, idle)
	}
}

func TestEngine_CrossFadeQueued(t *testing.T) {
	frames := testFrames(t)

	t.Run("PlayNow 立即开始", func(t *testing.T) {
		e := NewEngine()
		e.AddClip("getin", rootClip(frames, "getin", 1, false, 0, 1))
		e.AddClip("sit", rootClip(frames, "sit", 1, true, 0, 0))
		e.Play("getin", types.PlayModeStopAll)

		clone := e.CrossFadeQueued("sit", 0.2, types.QueueModePlayNow, types.PlayModeStopAll)
		if clone == nil || !clone.Enabled || clone.IsQueued() {
			t.Fatalf("Expected clone to start immediately, got %+v", clone)
		}
		if clone.Name != "sit"+QueuedCloneSuffix || !clone.IsClone() {
			t.Errorf("Unexpected clone name %q", clone.Name)
		}
	})

	t.Run("CompleteOthers 等待非循环状态结束", func(t *testing.T) {
		e := NewEngine()
		e.AddClip("getin", rootClip(frames, "getin", 1, false, 0, 1))
		e.AddClip("sit", rootClip(frames, "sit", 1, true, 0, 0))
		e.Play("getin", types.PlayModeStopAll)

		clone := e.CrossFadeQueued("sit", 0.2, types.QueueModeCompleteOthers, types.PlayModeStopAll)
		if clone == nil || clone.Enabled || !clone.IsQueued() {
			t.Fatalf("Expected clone to be queued, got %+v", clone)
		}

		e.Update(0.5)
		if clone.Enabled {
			t.Error("Expected clone to wait while getin is playing")
		}

		e.Update(0.6) // getin 播放完毕
		if !clone.Enabled || clone.IsQueued() {
			t.Errorf("Expected clone to start after getin finished, got %+v", clone)
		}
		if e.IsPlaying("getin") {
			t.Error("Expected getin to be finished")
		}
	})

	t.Run("循环状态不阻塞", func(t *testing.T) {
		e := NewEngine()
		e.AddClip("walk", rootClip(frames, "walk", 1, true, 0, 1))
		e.AddClip("sit", rootClip(frames, "sit", 1, true, 0, 0))
		e.Play("walk", types.PlayModeStopAll)

		clone := e.CrossFadeQueued("sit", 0.2, types.QueueModeCompleteOthers, types.PlayModeStopAll)
		if !clone.Enabled {
			t.Error("Expected looping state not to block queued clone")
		}
	})

	t.Run("克隆名唯一且结束后被清理", func(t *testing.T) {
		e := NewEngine()
		e.AddClip("wave", rootClip(frames, "wave", 0.5, false, 0, 1))

		first := e.CrossFadeQueued("wave", 0, types.QueueModePlayNow, types.PlayModeStopSameLayer)
		second := e.CrossFadeQueued("wave", 0, types.QueueModeCompleteOthers, types.PlayModeStopSameLayer)
		if first.Name == second.Name {
			t.Fatalf("Expected unique clone names, both are %q", first.Name)
		}

		e.Update(0.6) // first 结束，second 启动
		if e.State(first.Name) != nil {
			t.Error("Expected finished clone to be dropped")
		}
		if !second.Enabled {
			t.Error("Expected second clone to start after first finished")
		}

		e.Update(0.6)
		if e.State(second.Name) != nil {
			t.Error("Expected second clone to be dropped after finishing")
		}
		if e.State("wave") == nil {
			t.Error("Expected source state to remain registered")
		}
	})

	t.Run("未注册的状态", func(t *testing.T) {
		if NewEngine().CrossFadeQueued("missing", 0.1, types.QueueModePlayNow, types.PlayModeStopAll) != nil {
			t.Error("Expected nil for missing state")
		}
	})
}

func TestEngine_UpdateLoopAndNonLoop(t *testing.T) {
	frames := testFrames(t)
	e := NewEngine()
	walk := e.AddClip("walk", rootClip(frames, "walk", 1, true, 0, 1))

	e.Play("walk", types.PlayModeStopAll)
	e.Update(1.25)
	if !approx(walk.Time, 0.25) || !walk.Enabled {
		t.Errorf("Expected wrapped time 0.25, got %v", walk.Time)
	}
	if !approx(walk.NormalizedTime(), 0.25) {
		t.Errorf("Expected normalized time 0.25, got %v", walk.NormalizedTime())
	}

	walk.Speed = 2
	e.Update(0.25)
	if !approx(walk.Time, 0.75) {
		t.Errorf("Expected time 0.75 at double speed, got %v", walk.Time)
	}
}

func TestEngine_AddClipReplacesAndClear(t *testing.T) {
	frames := testFrames(t)
	e := NewEngine()
	old := e.AddClip("walk", rootClip(frames, "walk", 1, true, 0, 1))
	replaced := e.AddClip("walk", rootClip(frames, "walk", 2, true, 0, 1))

	if e.State("walk") != replaced || e.State("walk") == old {
		t.Error("Expected AddClip to replace existing state")
	}
	if len(e.States()) != 1 {
		t.Errorf("Expected 1 state, got %d", len(e.States()))
	}

	e.RemoveClip("walk")
	if e.State("walk") != nil {
		t.Error("Expected RemoveClip to drop the state")
	}

	e.AddClip("idle", rootClip(frames, "idle", 1, true, 0, 0))
	e.Clear()
	if len(e.States()) != 0 || e.State("idle") != nil {
		t.Error("Expected Clear to drop all states")
	}
}

func TestEngine_Sample(t *testing.T) {
	frames := testFrames(t)
	root, _ := frames.GetByName("Root")
	pelvis, _ := frames.GetByName("Pelvis")

	e := NewEngine()
	e.AddClip("a", rootClip(frames, "a", 1, true, 0, 0))
	e.AddClip("b", rootClip(frames, "b", 1, true, 2, 2))

	e.Play("a", types.PlayModeStopAll)
	e.CrossFade("b", 1, types.PlayModeStopAll)
	e.Update(0.5) // 两者权重各 0.5
	e.Sample(frames)

	if !approx(root.LocalPosition.Y, 1) {
		t.Errorf("Expected blended Y=1, got %v", root.LocalPosition.Y)
	}
	if !approx(root.LocalVelocity.Y, 2) {
		t.Errorf("Expected velocity Y=2 (moved 1 over 0.5s), got %v", root.LocalVelocity.Y)
	}
	// 没有轨道的节点保持静止姿势
	if pelvis.LocalPosition != (skeleton.Vec3{X: 0, Y: 0, Z: 1}) {
		t.Errorf("Expected pelvis untouched, got %v", pelvis.LocalPosition)
	}

	// 绑定到其它骨骼的片段不参与采样
	other := testFrames(t)
	e.Sample(other)
	otherRoot, _ := other.GetByName("Root")
	if otherRoot.LocalPosition != (skeleton.Vec3{}) {
		t.Errorf("Expected foreign skeleton untouched, got %v", otherRoot.LocalPosition)
	}

	// 已销毁的骨骼直接忽略
	frames.Destroy()
	e.Sample(frames)
}
