package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// GetLogger 返回全局日志实例
// 其他包直接使用logrus包级函数（logrus.Infof等）输出到同一实例
func GetLogger() *logrus.Logger {
	return logrus.StandardLogger()
}

func init() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	// 日志级别从环境变量读取，默认Info
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
