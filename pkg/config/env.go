package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// LaunchConfig 查看器和检查器共用的启动配置
// 环境变量给出默认值，命令行参数可以覆盖
type LaunchConfig struct {
	// DataDir 磁盘数据目录，为空时使用嵌入资源
	DataDir string `env:"PEDANIM_DATA_DIR"`

	// PedestrianID 初始行人 identity，0 表示使用默认值
	PedestrianID int `env:"PEDANIM_PED_ID" envDefault:"0"`

	// Behavior 行为脚本名
	Behavior string `env:"PEDANIM_BEHAVIOR"`

	// Verbose 启用详细日志
	Verbose bool `env:"PEDANIM_VERBOSE" envDefault:"false"`
}

// ParseEnv 从环境变量加载配置
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadLaunchConfig 从环境变量加载启动配置
func LoadLaunchConfig() (LaunchConfig, error) {
	var cfg LaunchConfig
	if err := ParseEnv(&cfg); err != nil {
		return LaunchConfig{}, err
	}
	return cfg, nil
}
