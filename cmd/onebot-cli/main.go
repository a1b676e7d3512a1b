// onebot-cli 连接 OneBot 实现并在终端打印收到的事件。
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/gocq/onebot11/bot"
	"github.com/gocq/onebot11/event"
	"github.com/gocq/onebot11/logging"
)

func main() {
	var confPath, logDir string
	flag.StringVar(&confPath, "c", "config.yml", "配置文件路径")
	flag.StringVar(&logDir, "log-dir", "logs", "日志目录, 为空时不写文件")
	flag.Parse()

	cfg, err := bot.LoadConfig(confPath)
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}
	logging.Init(cfg.LogLevel, logDir)

	b := bot.New(cfg)
	b.OnEvent(printEvent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := b.Start(ctx); err != nil {
		log.Fatalf("启动失败: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("收到退出信号, 正在关闭")
	case <-b.Done():
		if err := b.Err(); err != nil {
			log.Errorf("事件会话终止: %v", err)
		}
	}
	b.Stop()
}

func printEvent(ev event.Event) {
	switch e := ev.(type) {
	case *event.PrivateMessage:
		log.Infof("收到好友 %v(%v) 的消息: %v", e.Sender.Nickname, e.UserID, e.Message.CQString())
	case *event.GroupMessage:
		log.Infof("收到群 %v 内 %v(%v) 的消息: %v", e.GroupID, e.Sender.Nickname, e.UserID, e.Message.CQString())
	case *event.Heartbeat:
		log.Debugf("心跳: online=%v good=%v", e.Status.Online, e.Status.Good)
	case *event.Unknown:
		log.Debugf("未识别事件 %v: %v", e.PostType, e.Raw)
	default:
		log.Infof("事件: %v/%T", ev.EventPostType(), ev)
	}
}
