package bot

import (
	_ "embed"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yml
var defaultConfig []byte

// Config 机器人运行配置
type Config struct {
	// APIURL 动作调用地址, 如 "http://127.0.0.1:5700"
	APIURL string `yaml:"api-url"`
	// EventURL 事件推送地址, 如 "ws://127.0.0.1:8080/event"
	EventURL string `yaml:"event-url"`
	// AccessToken 动作调用鉴权令牌
	AccessToken string `yaml:"access-token"`
	// EventAccessToken 事件连接鉴权令牌, 为空时复用 AccessToken
	EventAccessToken string `yaml:"event-access-token"`
	// Timeout 单次动作调用超时, 单位秒
	Timeout int `yaml:"timeout"`
	// MaxRetries 事件连接的重连预算, 不大于 0 表示不限
	MaxRetries int `yaml:"max-retries"`
	// RetryInterval 重连间隔, 单位毫秒
	RetryInterval int `yaml:"retry-interval"`
	// LogLevel 日志等级
	LogLevel string `yaml:"log-level"`
}

// DefaultConfig 返回内置默认配置
func DefaultConfig() *Config {
	c := &Config{}
	if err := yaml.Unmarshal(defaultConfig, c); err != nil {
		panic(err)
	}
	return c
}

// LoadConfig 从文件读取配置, 文件不存在时写出默认配置模板后退出
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err = os.WriteFile(path, defaultConfig, 0o644); err != nil {
				return nil, errors.Wrap(err, "write default config")
			}
			log.Infof("默认配置文件已生成, 请修改 %s 后重新启动", path)
			os.Exit(0)
		}
		return nil, errors.Wrap(err, "read config")
	}
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return c, nil
}

// EventToken 返回事件连接使用的鉴权令牌
func (c *Config) EventToken() string {
	if c.EventAccessToken != "" {
		return c.EventAccessToken
	}
	return c.AccessToken
}

// CallTimeout 返回动作调用超时
func (c *Config) CallTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// RetryDelay 返回重连间隔
func (c *Config) RetryDelay() time.Duration {
	if c.RetryInterval <= 0 {
		return 3500 * time.Millisecond
	}
	return time.Duration(c.RetryInterval) * time.Millisecond
}
