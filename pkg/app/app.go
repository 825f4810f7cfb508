// Package app 提供行人动画查看器的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：加载共享服务、创建行人实体、
// 处理键盘输入，并在指定磁盘数据目录时监听文件变化自动重载。
// 桌面端通过 main.go 调用 NewApp()。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/pedanim/pkg/components"
	"github.com/decker502/pedanim/pkg/ecs"
	"github.com/decker502/pedanim/pkg/embedded"
	"github.com/decker502/pedanim/pkg/entities"
	"github.com/decker502/pedanim/pkg/game"
	"github.com/decker502/pedanim/pkg/pedestrian"
	"github.com/decker502/pedanim/pkg/systems"
	"github.com/decker502/pedanim/pkg/types"
)

// 逻辑屏幕尺寸
const (
	ScreenWidth  = 960
	ScreenHeight = 540
)

// zoomStep 每次按键缩放的倍率
const zoomStep = 1.25

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// DataDir 磁盘数据目录；为空时使用嵌入资源（调用前需 embedded.Init），非空时监听变化并热重载
	DataDir string
	// PedestrianID 初始行人 identity，0 表示使用上次记录或默认值
	PedestrianID int
	// Behavior 行为脚本名，为空时由键盘驱动
	Behavior string
	// StorageName gdata 存储名，为空时设置只保存在内存中
	StorageName string
}

// App 查看器应用，实现 ebiten.Game 接口
type App struct {
	cfg Config

	services *game.Services
	settings *game.SettingsManager

	entityManager    *ecs.EntityManager
	pedestrianSystem *systems.PedestrianSystem
	entity           ecs.EntityID
	ped              *components.PedestrianComponent

	watcher     *Watcher
	reloadError string

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化查看器
//
// cfg.DataDir 为空时，调用此函数前必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.DataDir != "" {
		if err := embedded.InitFromDir(cfg.DataDir); err != nil {
			return nil, fmt.Errorf("数据目录加载失败: %w", err)
		}
		log.Printf("[App] Using data dir: %s", cfg.DataDir)
	}

	services, err := game.LoadServices()
	if err != nil {
		return nil, fmt.Errorf("服务加载失败: %w", err)
	}

	var storage *gdata.Manager
	if cfg.StorageName != "" {
		storage, err = gdata.Open(gdata.Config{AppName: cfg.StorageName})
		if err != nil {
			// 降级模式：设置只保存在内存中
			log.Printf("[App] Warning: failed to open storage: %v", err)
			storage = nil
		}
	}

	a := &App{
		cfg:           cfg,
		services:      services,
		settings:      game.NewSettingsManager(storage),
		entityManager: ecs.NewEntityManager(),
	}
	a.pedestrianSystem = systems.NewPedestrianSystem(a.entityManager)

	id := cfg.PedestrianID
	if id == 0 {
		id = a.settings.GetSettings().LastPedestrianID
	}
	if id == 0 {
		id = pedestrian.DefaultPedestrianID
	}
	if err := a.spawn(id); err != nil {
		return nil, err
	}

	if cfg.DataDir != "" {
		dirs, err := watchDirs(cfg.DataDir)
		if err == nil {
			a.watcher, err = NewWatcher(dirs...)
		}
		if err != nil {
			log.Printf("[App] Warning: hot reload disabled: %v", err)
		} else {
			log.Printf("[App] Watching %d data dirs for changes", len(dirs))
		}
	}

	return a, nil
}

func (a *App) spawn(id int) error {
	entityID, err := entities.NewPedestrianEntity(a.entityManager, a.services.Pedestrian(), entities.PedestrianOptions{
		ID:       id,
		Behavior: a.cfg.Behavior,
	})
	if err != nil {
		return fmt.Errorf("行人创建失败: %w", err)
	}
	pc, _ := ecs.GetComponent[*components.PedestrianComponent](a.entityManager, entityID)
	a.entity = entityID
	a.ped = pc
	return nil
}

// Update 更新查看器逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.pollWatcher()
	a.handleInput()

	deltaTime := 1.0 / 60.0
	a.Step(deltaTime)
	return nil
}

// Step 推进一个 tick（不处理输入）
func (a *App) Step(deltaTime float64) {
	a.pedestrianSystem.Update(deltaTime)
}

func (a *App) pollWatcher() {
	if a.watcher == nil {
		return
	}
	changed := ""
drain:
	for {
		select {
		case name, ok := <-a.watcher.Events:
			if !ok {
				a.watcher = nil
				break drain
			}
			changed = name
		case err, ok := <-a.watcher.Errors:
			if !ok {
				a.watcher = nil
				break drain
			}
			log.Printf("[App] Watcher error: %v", err)
		default:
			break drain
		}
	}
	if changed != "" {
		log.Printf("[App] Data changed: %s", changed)
		a.Reload()
	}
}

func (a *App) handleInput() {
	ped := a.ped.Ped

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		a.CycleIdentity(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		a.CycleIdentity(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		ped.SetWalking(!ped.Walking())
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		ped.SetRunning(!ped.Running())
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		ped.SetAnim(types.AnimGroupWalkCycle, types.AnimIndexPanicked)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		ped.SetAnim(types.AnimGroupWalkCycle, types.AnimIndexRoadCross)
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		a.ToggleVehicle()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		a.QueueGetIn()
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		a.settings.ToggleBones()
		a.saveSettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		a.settings.ToggleLabels()
		a.saveSettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		a.settings.SetZoom(a.settings.GetSettings().Zoom * zoomStep)
		a.saveSettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		a.settings.SetZoom(a.settings.GetSettings().Zoom / zoomStep)
		a.saveSettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		a.Reload()
	}
}

// CycleIdentity 切换到已定义 identity 列表中的上一个 / 下一个
func (a *App) CycleIdentity(step int) {
	next := a.services.Definitions.NextID(a.ped.Ped.PedestrianID(), step)
	if next == a.ped.Ped.PedestrianID() {
		return
	}
	a.ped.Ped.SetPedestrianID(next)
	a.settings.SetLastPedestrianID(next)
	a.saveSettings()
	log.Printf("[App] Switched to pedestrian %d", next)
}

// ToggleVehicle 上车（坐姿）/ 下车（待机）
func (a *App) ToggleVehicle() {
	ped := a.ped.Ped
	if ped.InVehicle {
		ped.InVehicle = false
		ped.SetAnim(types.AnimGroupWalkCycle, types.AnimIndexIdle)
		return
	}
	ped.InVehicle = true
	ped.SetAnim(types.AnimGroupCar, types.AnimIndexSit)
}

// QueueGetIn 等当前非循环动画结束后播放上车动画
func (a *App) QueueGetIn() {
	if _, err := a.ped.Ped.CrossFadeAnimQueued(types.AnimGroupCar, types.AnimIndexGetInLeft,
		pedestrian.DefaultCrossFadeDuration, types.QueueModeCompleteOthers, types.PlayModeStopAll); err != nil {
		log.Printf("[App] Failed to queue get-in: %v", err)
	}
}

// Reload 重新加载所有数据并重建行人，失败时保留当前状态
func (a *App) Reload() {
	if a.cfg.DataDir != "" {
		if err := embedded.InitFromDir(a.cfg.DataDir); err != nil {
			a.reloadError = err.Error()
			log.Printf("[App] Reload failed: %v", err)
			return
		}
	}

	services, err := game.LoadServices()
	if err != nil {
		a.reloadError = err.Error()
		log.Printf("[App] Reload failed: %v", err)
		return
	}

	old := a.ped.Ped
	id, inVehicle, request := old.PedestrianID(), old.InVehicle, old.Anim()

	a.services = services
	a.entityManager.DestroyEntity(a.entity)
	a.entityManager.RemoveMarkedEntities()
	if err := a.spawn(id); err != nil {
		a.reloadError = err.Error()
		log.Printf("[App] Reload failed: %v", err)
		return
	}
	a.ped.Ped.InVehicle = inVehicle
	a.ped.Ped.SetAnim(request.Group, request.Index)
	a.reloadError = ""
	log.Printf("[App] Reloaded data, pedestrian %d recreated", id)
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// Draw 绘制查看器画面
func (a *App) Draw(screen *ebiten.Image) {
	drawScene(screen, a)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Pedestrian 返回当前行人组件
func (a *App) Pedestrian() *components.PedestrianComponent {
	return a.ped
}

// Settings 返回设置管理器
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// Close 停止监听数据目录
func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Close()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.cfg.Verbose
}
