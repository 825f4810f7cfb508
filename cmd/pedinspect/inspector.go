package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/pedanim/pkg/components"
	"github.com/decker502/pedanim/pkg/ecs"
	"github.com/decker502/pedanim/pkg/entities"
	"github.com/decker502/pedanim/pkg/game"
	"github.com/decker502/pedanim/pkg/pedestrian"
	"github.com/decker502/pedanim/pkg/systems"
	"github.com/decker502/pedanim/pkg/types"
)

// Inspector 终端里的单个行人检查器
type Inspector struct {
	services *game.Services
	em       *ecs.EntityManager
	system   *systems.PedestrianSystem
	ped      *components.PedestrianComponent

	paused bool
	ticks  int
	status string // 最近一次排队操作的结果
}

// NewInspector 创建检查器；数据需已通过 embedded 初始化
func NewInspector(id int, behaviorName string) (*Inspector, error) {
	services, err := game.LoadServices()
	if err != nil {
		return nil, err
	}

	em := ecs.NewEntityManager()
	if id == 0 {
		id = pedestrian.DefaultPedestrianID
	}
	entityID, err := entities.NewPedestrianEntity(em, services.Pedestrian(), entities.PedestrianOptions{
		ID:       id,
		Behavior: behaviorName,
	})
	if err != nil {
		return nil, err
	}
	pc, _ := ecs.GetComponent[*components.PedestrianComponent](em, entityID)

	return &Inspector{
		services: services,
		em:       em,
		system:   systems.NewPedestrianSystem(em),
		ped:      pc,
	}, nil
}

// Tick 推进 dt 秒（暂停时不推进）
func (in *Inspector) Tick(dt float64) {
	if in.paused {
		return
	}
	in.system.Update(dt)
	in.ticks++
}

// HandleKey 处理按键，返回 false 表示退出
func (in *Inspector) HandleKey(ev *tcell.EventKey) bool {
	ped := in.ped.Ped

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRight:
		ped.SetPedestrianID(in.services.Definitions.NextID(ped.PedestrianID(), 1))
	case tcell.KeyLeft:
		ped.SetPedestrianID(in.services.Definitions.NextID(ped.PedestrianID(), -1))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'w':
			ped.SetWalking(!ped.Walking())
		case 'r':
			ped.SetRunning(!ped.Running())
		case 'p':
			ped.SetAnim(types.AnimGroupWalkCycle, types.AnimIndexPanicked)
		case 'c':
			ped.SetAnim(types.AnimGroupWalkCycle, types.AnimIndexRoadCross)
		case 'v':
			ped.InVehicle = !ped.InVehicle
			if ped.InVehicle {
				ped.SetAnim(types.AnimGroupCar, types.AnimIndexSit)
			} else {
				ped.SetAnim(types.AnimGroupWalkCycle, types.AnimIndexIdle)
			}
		case 'g':
			in.queueGetOut()
		case ' ':
			in.paused = !in.paused
		case '.':
			// 暂停时单步
			if in.paused {
				in.system.Update(tickInterval.Seconds())
				in.ticks++
			}
		}
	}
	return true
}

// queueGetOut 等当前非循环动画结束后播放下车动画，结果写入状态行
func (in *Inspector) queueGetOut() {
	state, err := in.ped.Ped.CrossFadeAnimQueued(types.AnimGroupCar, types.AnimIndexGetOutLeft,
		pedestrian.DefaultCrossFadeDuration, types.QueueModeCompleteOthers, types.PlayModeStopAll)
	switch {
	case err != nil:
		in.status = fmt.Sprintf("Queue get-out failed: %v", err)
		log.Printf("[Inspector] Failed to queue get-out: %v", err)
	case state == nil:
		in.status = "Queue get-out skipped: no clip"
	default:
		in.status = "Queued " + state.Name
	}
}

// Lines 当前状态的文本表示
func (in *Inspector) Lines() []string {
	ped := in.ped.Ped
	state := "running"
	if in.paused {
		state = "paused"
	}

	lines := []string{
		fmt.Sprintf("Pedestrian %d  tick %d  [%s]", ped.PedestrianID(), in.ticks, state),
	}
	if def := ped.Definition(); def != nil {
		lines = append(lines, fmt.Sprintf("Model %s  txds %s  anim group %s",
			def.ModelName, strings.Join(def.TextureDictionaryNames, ","), def.AnimGroupName))
	} else {
		lines = append(lines, "Model (not loaded)")
	}
	lines = append(lines,
		fmt.Sprintf("Desired %-22s Current %s", ped.Anim(), ped.CurrentAnim()),
		fmt.Sprintf("Speed %.2f  walking %v  running %v  in vehicle %v", ped.Speed(), ped.Walking(), ped.Running(), ped.InVehicle),
		"",
		fmt.Sprintf("Clip cache (%d): %s", ped.Cache().Len(), strings.Join(ped.Cache().Names(), " ")),
		"",
		fmt.Sprintf("%-30s %7s %7s %7s %s", "STATE", "TIME", "LENGTH", "WEIGHT", "FLAGS"),
	)

	for _, s := range in.ped.Engine.States() {
		var flags []string
		if s.Enabled {
			flags = append(flags, "playing")
		}
		if s.IsFading() {
			flags = append(flags, "fading")
		}
		if s.IsQueued() {
			flags = append(flags, "queued")
		}
		if !s.Looping() {
			flags = append(flags, "once")
		}
		lines = append(lines, fmt.Sprintf("%-30s %7.2f %7.2f %7.2f %s",
			s.Name, s.Time, s.Length(), s.Weight, strings.Join(flags, ",")))
	}

	if in.status != "" {
		lines = append(lines, "", in.status)
	}
	if in.ped.LastError != "" {
		lines = append(lines, "", "Error: "+in.ped.LastError)
	}
	lines = append(lines, "",
		"<-/-> identity  w walk  r run  p panic  c cross  v vehicle  g queue get-out",
		"space pause  . step  q quit")
	return lines
}

// Draw 把 Lines 写到屏幕上
func (in *Inspector) Draw(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()
	for y, line := range in.Lines() {
		if y >= height {
			break
		}
		style := tcell.StyleDefault
		switch {
		case y == 0:
			style = style.Bold(true)
		case strings.HasPrefix(line, "Error:"):
			style = style.Foreground(tcell.ColorRed)
		case strings.HasPrefix(line, "STATE"):
			style = style.Foreground(tcell.ColorYellow)
		}
		drawText(screen, 0, y, width, line, style)
	}
	screen.Show()
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
