package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// 环境变量前缀
const envPrefix = "WEEKBOARD_"

// 数据目录下的子目录
const (
	UploadsDir = "uploads" // 定时扫描目录
	ArchiveDir = "archive" // 上传文件副本，不参与扫描
	ExportsDir = "exports"
	BackupsDir = "backups"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Schedule ScheduleConfig `toml:"schedule"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir   string `toml:"data_dir"`
	UploadDir string `toml:"upload_dir"` // 定时扫描的周报目录，为空时使用 data_dir/uploads
}

// ScheduleConfig 定时分析配置
type ScheduleConfig struct {
	Enabled  bool   `toml:"enabled"`
	Weekday  int    `toml:"weekday"` // 0 = 周日
	Hour     int    `toml:"hour"`
	Minute   int    `toml:"minute"`
	TimeZone string `toml:"time_zone"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Schedule: ScheduleConfig{
			Enabled:  true,
			Weekday:  0,
			Hour:     18,
			Minute:   0,
			TimeZone: "Asia/Shanghai",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func exeDirOrDot() string {
	dir, err := GetExeDir()
	if err != nil || dir == "" {
		return "."
	}
	return dir
}

// DefaultPath 可执行文件同目录下的 config.toml
func DefaultPath() string {
	return filepath.Join(exeDirOrDot(), "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom 从指定路径加载配置；文件不存在时使用默认配置，之后应用 .env 与环境变量覆盖
func LoadFrom(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case errors.Is(err, os.ErrNotExist):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	// .env 与配置文件同目录；不存在时忽略
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	if applyEnv(config) {
		info.PortSpecified = true
	}
	return config, info, nil
}

// applyEnv 环境变量覆盖（用于容器 / 本地运行），返回端口是否被覆盖
func applyEnv(config *AppConfig) bool {
	portSet := false
	if v := env("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			config.Server.Port = p
			portSet = true
		}
	}
	if v := env("DEV_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Server.DevMode = b
		}
	}
	if v := env("DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := env("UPLOAD_DIR"); v != "" {
		config.Data.UploadDir = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := env("LOG_FILE"); v != "" {
		config.Log.File = v
	}
	if v := env("TIME_ZONE"); v != "" {
		config.Schedule.TimeZone = v
	}
	if v := env("SCHEDULE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Schedule.Enabled = b
		}
	}
	return portSet
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir 数据目录的绝对位置；相对路径基于可执行文件目录
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	return filepath.Join(exeDirOrDot(), config.Data.DataDir)
}

// EnsureDataDir 确保数据目录及其子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	for _, subdir := range []string{UploadsDir, ArchiveDir, ExportsDir, BackupsDir} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// ArchivePath 上传文件副本的保存目录
func ArchivePath(dataDir string) string {
	return filepath.Join(dataDir, ArchiveDir)
}

// UploadDir 定时扫描目录
func UploadDir(config *AppConfig, dataDir string) string {
	if config.Data.UploadDir != "" {
		return config.Data.UploadDir
	}
	return filepath.Join(dataDir, UploadsDir)
}
