package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	once         sync.Once
)

// Init 初始化全局日志（stdout + 可选日志文件），只生效一次
func Init(level, logFilePath string) {
	once.Do(func() {
		writers := []io.Writer{os.Stdout}

		if logFilePath != "" {
			file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
			if err != nil {
				// 日志尚未就绪，直接写 stderr
				os.Stderr.WriteString("open log file failed: " + err.Error() + "\n")
			} else {
				writers = append(writers, file)
			}
		}

		l := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
		globalLogger = l.Level(ParseLevel(level))
		log.Logger = globalLogger
	})
}

// ParseLevel 解析日志级别，无法识别时使用 info
func ParseLevel(level string) zerolog.Level {
	lv, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lv == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lv
}

// L 全局日志
func L() *zerolog.Logger {
	return &globalLogger
}

// WithFields 返回携带附加字段日志的 context
func WithFields(ctx context.Context, fields map[string]interface{}) context.Context {
	l := FromContext(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

// FromContext 取 context 中的日志，没有则退回全局日志
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &globalLogger
	}
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &globalLogger
	}
	return l
}
