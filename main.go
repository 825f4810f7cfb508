// main.go
// 行人动画查看器
//
// 用法：
//
//	go run . [-data=./data] [-ped=9] [-behavior=stroll] [-verbose]
//
// 参数默认值来自环境变量 PEDANIM_DATA_DIR / PEDANIM_PED_ID / PEDANIM_BEHAVIOR / PEDANIM_VERBOSE。
// 指定 -data 时从磁盘加载数据，并在文件变化时自动重载。
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/pedanim/pkg/app"
	"github.com/decker502/pedanim/pkg/config"
	"github.com/decker502/pedanim/pkg/embedded"
)

func main() {
	launch, err := config.LoadLaunchConfig()
	if err != nil {
		log.Fatalf("环境变量解析失败: %v", err)
	}

	dataDir := flag.String("data", launch.DataDir, "磁盘数据目录（为空时使用嵌入资源）")
	pedID := flag.Int("ped", launch.PedestrianID, "初始行人 ID（0 使用上次记录）")
	behavior := flag.String("behavior", launch.Behavior, "行为脚本名（data/behaviors 下）")
	verbose := flag.Bool("verbose", launch.Verbose, "详细日志")
	flag.Parse()

	if *verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	}

	if *dataDir == "" {
		if err := embedded.Init(dataFS); err != nil {
			log.Fatalf("嵌入资源初始化失败: %v", err)
		}
	}

	viewer, err := app.NewApp(app.Config{
		Verbose:      *verbose,
		DataDir:      *dataDir,
		PedestrianID: *pedID,
		Behavior:     *behavior,
		StorageName:  "pedanim",
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer viewer.Close()

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Pedestrian Animation Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
