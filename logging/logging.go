// Package logging 初始化日志输出: 控制台带色彩, 文件按天切分。
package logging

import (
	"io"
	"path"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"

	"github.com/gocq/onebot11/internal/pool"
)

// LocalHook logrus本地钩子, 将日志同时写入文件
type LocalHook struct {
	levels    []log.Level
	formatter log.Formatter
	writer    io.Writer
}

// Levels impl Hook interface
func (hook *LocalHook) Levels() []log.Level {
	return hook.levels
}

// Fire impl Hook interface
func (hook *LocalHook) Fire(entry *log.Entry) error {
	if hook.writer == nil {
		return nil
	}
	data, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = hook.writer.Write(data)
	return err
}

// NewLocalHook 初始化本地日志钩子实现
func NewLocalHook(writer io.Writer, formatter log.Formatter, level log.Level) *LocalHook {
	return &LocalHook{
		levels:    levelsUpTo(level),
		formatter: formatter,
		writer:    writer,
	}
}

func levelsUpTo(level log.Level) []log.Level {
	levels := make([]log.Level, 0, int(level)+1)
	for _, l := range log.AllLevels {
		if l <= level {
			levels = append(levels, l)
		}
	}
	return levels
}

// ParseLevel 解析日志等级配置
//
// 可能的值有
//
// "trace","debug","info","warn","error"
func ParseLevel(level string) log.Level {
	switch level {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Format 日志格式
type Format struct {
	EnableColor bool
}

// Format implements logrus.Formatter
func (f Format) Format(entry *log.Entry) ([]byte, error) {
	buf := pool.NewBuffer()
	defer pool.PutBuffer(buf)

	if f.EnableColor {
		buf.WriteString(levelColorCode(entry.Level))
	}

	buf.WriteByte('[')
	buf.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.WriteString("] [")
	buf.WriteString(strings.ToUpper(entry.Level.String()))
	buf.WriteString("]: ")
	buf.WriteString(entry.Message)
	buf.WriteString(" \n")

	if f.EnableColor {
		buf.WriteString(colorReset)
	}

	ret := append([]byte(nil), buf.Bytes()...) // copy buffer
	return ret, nil
}

const (
	colorCodeFatal = "\x1b[1;31m"
	colorCodeError = "\x1b[31m"
	colorCodeWarn  = "\x1b[33m"
	colorCodeInfo  = "\x1b[37m"
	colorCodeDebug = "\x1b[32m"
	colorReset     = "\x1b[0m"
)

func levelColorCode(level log.Level) string {
	switch level {
	case log.FatalLevel:
		return colorCodeFatal
	case log.ErrorLevel:
		return colorCodeError
	case log.WarnLevel:
		return colorCodeWarn
	case log.InfoLevel:
		return colorCodeInfo
	case log.DebugLevel, log.TraceLevel:
		return colorCodeDebug
	default:
		return colorCodeInfo
	}
}

// Init 初始化全局日志: 控制台彩色输出, 日志文件按天切分保留一周
func Init(level, logDir string) {
	logLevel := ParseLevel(level)
	log.SetLevel(logLevel)
	log.SetOutput(colorable.NewColorableStdout())
	log.SetFormatter(Format{EnableColor: true})

	if logDir == "" {
		return
	}
	w, err := rotatelogs.New(
		path.Join(logDir, "%Y-%m-%d.log"),
		rotatelogs.WithRotationTime(time.Hour*24),
		rotatelogs.WithMaxAge(time.Hour*24*7),
	)
	if err != nil {
		log.Errorf("初始化日志文件失败: %v", err)
		return
	}
	log.AddHook(NewLocalHook(w, Format{EnableColor: false}, logLevel))
}
