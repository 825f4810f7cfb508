package app

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/decker502/pedanim/pkg/skeleton"
)

// 地面线在屏幕上的高度，视图中心的横坐标
const (
	groundY = ScreenHeight * 0.8
	centerX = ScreenWidth * 0.5
)

const jointSize = 4

// project 侧视投影：世界 Z 向右，Y 向上
func project(pos skeleton.Vec3, zoom float64) (float32, float32) {
	return float32(centerX + pos.Z*zoom), float32(groundY - pos.Y*zoom)
}

func drawScene(screen *ebiten.Image, a *App) {
	screen.Fill(colornames.Darkslategray)
	vector.StrokeLine(screen, 0, groundY, ScreenWidth, groundY, 1, colornames.Gray, false)

	settings := a.settings.GetSettings()
	frames := a.ped.Ped.Frames()
	if frames != nil && !frames.Destroyed() {
		drawSkeleton(screen, frames, settings.Zoom, settings.ShowBones, settings.ShowLabels)
	}

	ebitenutil.DebugPrint(screen, strings.Join(hudLines(a), "\n"))
}

func drawSkeleton(screen *ebiten.Image, frames *skeleton.FrameContainer, zoom float64, bones, labels bool) {
	for _, f := range frames.Frames() {
		x, y := project(f.WorldPosition(), zoom)

		// 顶层节点的父节点是模型节点，不画连线
		if bones && f.Parent != nil && f.Parent.Index >= 0 {
			px, py := project(f.Parent.WorldPosition(), zoom)
			vector.StrokeLine(screen, px, py, x, y, 2, colornames.Lightgrey, true)
		}

		clr := colornames.Orange
		if f.Name == skeleton.RootFrameName {
			clr = colornames.Crimson
		}
		vector.DrawFilledRect(screen, x-jointSize/2, y-jointSize/2, jointSize, jointSize, clr, false)

		if labels {
			ebitenutil.DebugPrintAt(screen, f.Name, int(x)+4, int(y)-8)
		}
	}
}

// hudLines 左上角的状态文本
func hudLines(a *App) []string {
	ped := a.ped.Ped
	lines := []string{
		fmt.Sprintf("Pedestrian %d  desired %s  current %s", ped.PedestrianID(), ped.Anim(), ped.CurrentAnim()),
	}
	if def := ped.Definition(); def != nil {
		lines = append(lines, fmt.Sprintf("Model %s  group %s  clips cached %d", def.ModelName, def.AnimGroupName, ped.Cache().Len()))
	}
	lines = append(lines, fmt.Sprintf("Speed %.2f  walking %v  running %v  in vehicle %v", ped.Speed(), ped.Walking(), ped.Running(), ped.InVehicle))

	for _, s := range a.ped.Engine.States() {
		if s.Enabled {
			lines = append(lines, fmt.Sprintf("  %-28s t=%.2f w=%.2f", s.Name, s.Time, s.Weight))
		}
	}

	if a.ped.LastError != "" {
		lines = append(lines, "Error: "+a.ped.LastError)
	}
	if a.reloadError != "" {
		lines = append(lines, "Reload failed: "+a.reloadError)
	}
	lines = append(lines, "",
		"<-/-> identity  W walk  R run  P panic  C cross  V vehicle  G queue get-in",
		"B bones  L labels  +/- zoom  F5 reload  F11 fullscreen")
	return lines
}
