package config

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/decker502/pedanim/pkg/embedded"
	"github.com/decker502/pedanim/pkg/types"
)

const testPedsYAML = `
peds:
  - id: 7
    model_name: male01
    txds: [male01, peds_common]
    anim_group: man
  - id: 9
    model_name: bfori
    anim_group: woman
`

const testAnimGrpYAML = `
groups:
  - name: man
    group: walkcycle
    file: man.ifp
    clips:
      idle: idle_stance
      walk: walk_civi
      run: run_civi
      panicked: run_civi
  - name: man
    group: car
    file: ped.ifp
    clips:
      sit: car_sit
`

const testModelYAML = `
name: male01
frames:
  - name: Root
  - name: Pelvis
    parent: Root
    offset: [0, 0, 1]
  - name: Head
    parent: Pelvis
    offset: [0, 0, 0.6]
`

func initTestData(t *testing.T) {
	t.Helper()
	embedded.InitFS(fstest.MapFS{
		"peds.yaml":          {Data: []byte(testPedsYAML)},
		"animgrp.yaml":       {Data: []byte(testAnimGrpYAML)},
		"animgrp/extra.yaml": {Data: []byte("groups:\n  - name: woman\n    group: walkcycle\n    file: woman.ifp\n    clips:\n      idle: idle_woman\n")},
		"models/male01.yaml": {Data: []byte(testModelYAML)},
		"models/bfori.yaml":  {Data: []byte("frames:\n  - name: Root\n")},
	})
}

func TestPedestrianDefManager_GetDefinition(t *testing.T) {
	initTestData(t)

	manager, err := NewPedestrianDefManager("data/peds.yaml")
	if err != nil {
		t.Fatalf("加载行人定义失败: %v", err)
	}

	t.Run("获取 7 号行人", func(t *testing.T) {
		def, err := manager.GetDefinition(7)
		if err != nil {
			t.Fatalf("GetDefinition(7) failed: %v", err)
		}
		if def.ModelName != "male01" || def.AnimGroupName != "man" {
			t.Errorf("Unexpected definition: %+v", def)
		}
		if len(def.TextureDictionaryNames) != 2 {
			t.Errorf("Expected 2 txds, got %v", def.TextureDictionaryNames)
		}
	})

	t.Run("txds 默认为模型名", func(t *testing.T) {
		def, err := manager.GetDefinition(9)
		if err != nil {
			t.Fatalf("GetDefinition(9) failed: %v", err)
		}
		if len(def.TextureDictionaryNames) != 1 || def.TextureDictionaryNames[0] != "bfori" {
			t.Errorf("Expected default txds [bfori], got %v", def.TextureDictionaryNames)
		}
	})

	t.Run("定义不存在", func(t *testing.T) {
		_, err := manager.GetDefinition(42)
		var notFound *DefinitionNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("Expected DefinitionNotFoundError, got %v", err)
		}
		if notFound.ID != 42 {
			t.Errorf("Expected ID 42, got %d", notFound.ID)
		}
	})

	if ids := manager.ListIDs(); len(ids) != 2 || ids[0] != 7 || ids[1] != 9 {
		t.Errorf("Unexpected ids: %v", ids)
	}
}

func TestPedestrianDefManager_NextID(t *testing.T) {
	manager, err := ParsePedestrianDefs([]byte(`
peds:
  - {id: 11, model_name: male01, anim_group: oldman}
  - {id: 7, model_name: male01, anim_group: man}
  - {id: 9, model_name: female01, anim_group: woman}
`))
	if err != nil {
		t.Fatalf("ParsePedestrianDefs failed: %v", err)
	}

	tests := []struct {
		name    string
		current int
		step    int
		want    int
	}{
		{"forward", 7, 1, 9},
		{"backward", 9, -1, 7},
		{"wrap forward", 11, 1, 7},
		{"wrap backward", 7, -1, 11},
		{"unknown forward", 8, 1, 9},
		{"unknown backward", 8, -1, 7},
		{"above all forward", 20, 1, 7},
		{"below all backward", 1, -1, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := manager.NextID(tt.current, tt.step); got != tt.want {
				t.Errorf("NextID(%d, %d) = %d, want %d", tt.current, tt.step, got, tt.want)
			}
		})
	}

	empty, err := ParsePedestrianDefs([]byte("peds: []\n"))
	if err != nil {
		t.Fatalf("ParsePedestrianDefs failed: %v", err)
	}
	if got := empty.NextID(5, 1); got != 5 {
		t.Errorf("Expected current id without definitions, got %d", got)
	}
}

func TestParsePedestrianDefs_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"缺少模型名", "peds:\n  - id: 1\n    anim_group: man\n"},
		{"缺少动画组", "peds:\n  - id: 1\n    model_name: m\n"},
		{"重复 ID", "peds:\n  - {id: 1, model_name: m, anim_group: man}\n  - {id: 1, model_name: n, anim_group: man}\n"},
		{"非法 YAML", "peds: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePedestrianDefs([]byte(tt.yaml)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestAnimGroupRegistry_Resolve(t *testing.T) {
	initTestData(t)

	registry, err := NewAnimGroupRegistry("data/animgrp.yaml")
	if err != nil {
		t.Fatalf("加载动画组失败: %v", err)
	}
	if registry.Len() != 2 {
		t.Fatalf("Expected 2 tables, got %d", registry.Len())
	}

	t.Run("解析 man/walkcycle", func(t *testing.T) {
		table, err := registry.Resolve("man", types.AnimGroupWalkCycle)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if table.FileName != "man.ifp" {
			t.Errorf("Expected file man.ifp, got %s", table.FileName)
		}
		name, err := table.ClipName(types.AnimIndexRun)
		if err != nil || name != "run_civi" {
			t.Errorf("ClipName(run) = %q, %v", name, err)
		}
		// 不同索引可以映射到同一个动画名
		panicked, _ := table.ClipName(types.AnimIndexPanicked)
		if panicked != name {
			t.Errorf("Expected panicked to share clip %q, got %q", name, panicked)
		}
	})

	t.Run("未注册的组", func(t *testing.T) {
		_, err := registry.Resolve("woman", types.AnimGroupCar)
		var unknown *UnknownGroupError
		if !errors.As(err, &unknown) {
			t.Fatalf("Expected UnknownGroupError, got %v", err)
		}
		if unknown.GroupName != "woman" || unknown.Group != types.AnimGroupCar {
			t.Errorf("Unexpected error fields: %+v", unknown)
		}
	})

	t.Run("表中没有该索引", func(t *testing.T) {
		table, err := registry.Resolve("man", types.AnimGroupCar)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		_, err = table.ClipName(types.AnimIndexDriveLeft)
		var unknown *UnknownAnimError
		if !errors.As(err, &unknown) {
			t.Fatalf("Expected UnknownAnimError, got %v", err)
		}
	})

	t.Run("Indices 按枚举顺序", func(t *testing.T) {
		table, _ := registry.Resolve("man", types.AnimGroupWalkCycle)
		got := table.Indices()
		want := []types.AnimIndex{types.AnimIndexIdle, types.AnimIndexWalk, types.AnimIndexRun, types.AnimIndexPanicked}
		if len(got) != len(want) {
			t.Fatalf("Expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Indices()[%d] = %s, want %s", i, got[i], want[i])
			}
		}
	})
}

func TestAnimGroupRegistry_Directory(t *testing.T) {
	initTestData(t)

	registry, err := NewAnimGroupRegistry("data/animgrp")
	if err != nil {
		t.Fatalf("目录模式加载失败: %v", err)
	}
	if _, err := registry.Resolve("woman", types.AnimGroupWalkCycle); err != nil {
		t.Errorf("Expected woman/walkcycle from directory, got %v", err)
	}
}

func TestParseAnimGroupRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"未知索引", "groups:\n  - {name: man, group: walkcycle, file: a.ifp, clips: {sprint: x}}\n"},
		{"未知组", "groups:\n  - {name: man, group: boat, file: a.ifp}\n"},
		{"缺少文件", "groups:\n  - {name: man, group: walkcycle}\n"},
		{"none 索引", "groups:\n  - {name: man, group: walkcycle, file: a.ifp, clips: {none: x}}\n"},
		{"重复组", "groups:\n  - {name: man, group: car, file: a.ifp}\n  - {name: man, group: car, file: b.ifp}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAnimGroupRegistry([]byte(tt.yaml)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestModelManager(t *testing.T) {
	initTestData(t)

	mm, err := NewModelManager("data/models")
	if err != nil {
		t.Fatalf("加载模型失败: %v", err)
	}

	model, err := mm.GetModel("male01")
	if err != nil {
		t.Fatalf("GetModel(male01) failed: %v", err)
	}
	if len(model.Frames) != 3 || model.Frames[2].Parent != "Pelvis" {
		t.Errorf("Unexpected frames: %+v", model.Frames)
	}

	// 文件中未写 name 时使用文件名
	if _, err := mm.GetModel("bfori"); err != nil {
		t.Errorf("Expected model named after file, got %v", err)
	}

	if _, err := mm.GetModel("nope"); err == nil {
		t.Error("Expected error for missing model")
	}
}

func TestParseModelDef_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"空模型", "name: m\nframes: []\n"},
		{"父节点未声明", "name: m\nframes:\n  - {name: A, parent: B}\n"},
		{"重复节点", "name: m\nframes:\n  - {name: A}\n  - {name: A}\n"},
		{"offset 分量错误", "name: m\nframes:\n  - {name: A, offset: [1, 2]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseModelDef([]byte(tt.yaml)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
