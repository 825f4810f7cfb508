// cmd/pedinspect/main.go
// 行人动画终端检查器：显示请求状态、片段缓存和播放引擎中的所有状态
//
// 用法：
//
//	go run ./cmd/pedinspect [-data=./data] [-ped=9] [-behavior=stroll] [-log=inspect.log]
//
// 参数默认值来自环境变量 PEDANIM_DATA_DIR / PEDANIM_PED_ID / PEDANIM_BEHAVIOR / PEDANIM_VERBOSE。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/pedanim/pkg/config"
	"github.com/decker502/pedanim/pkg/embedded"
)

// tickInterval 模拟步长
const tickInterval = 50 * time.Millisecond

func main() {
	launch, err := config.LoadLaunchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "环境变量解析失败: %v\n", err)
		os.Exit(1)
	}

	dataDir := flag.String("data", launch.DataDir, "数据目录")
	pedID := flag.Int("ped", launch.PedestrianID, "初始行人 ID")
	behavior := flag.String("behavior", launch.Behavior, "行为脚本名（data/behaviors 下）")
	logPath := flag.String("log", "", "日志文件（终端界面运行时不输出到屏幕）")
	verbose := flag.Bool("verbose", launch.Verbose, "详细日志")
	flag.Parse()

	if err := setupLog(*logPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "日志初始化失败: %v\n", err)
		os.Exit(1)
	}

	if *dataDir == "" {
		*dataDir = "data"
	}
	if err := embedded.InitFromDir(*dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "数据目录加载失败: %v\n", err)
		os.Exit(1)
	}

	inspector, err := NewInspector(*pedID, *behavior)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	run(screen, inspector)
}

func setupLog(path string, verbose bool) error {
	if verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	}
	if path == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	log.SetOutput(f)
	return nil
}

func run(screen tcell.Screen, inspector *Inspector) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// Fini 之后返回 nil
				return
			}
			eventChan <- ev
		}
	}()

	inspector.Draw(screen)
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !inspector.HandleKey(ev) {
					return
				}
				inspector.Draw(screen)
			case *tcell.EventResize:
				screen.Sync()
				inspector.Draw(screen)
			}
		case <-ticker.C:
			inspector.Tick(tickInterval.Seconds())
			inspector.Draw(screen)
		}
	}
}
