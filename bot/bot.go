// Package bot 将动作调用客户端与事件会话组合为一个机器人实例。
package bot

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/gocq/onebot11/api"
	"github.com/gocq/onebot11/event"
	"github.com/gocq/onebot11/message"
)

// session 一次启动产生的会话实例及其生命周期句柄
type session struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Bot 机器人实例。API 客户端随实例存在,
// 事件会话由 Start 创建, 同一时刻至多一条
type Bot struct {
	cfg *Config
	cli *api.Client

	mu       sync.Mutex
	sess     *session
	handlers []func(event.Event)

	closeOnce sync.Once
}

// New 构造机器人实例
func New(cfg *Config) *Bot {
	cli := api.NewClient(api.Options{
		Host:        cfg.APIURL,
		AccessToken: cfg.AccessToken,
		Timeout:     cfg.CallTimeout(),
	})
	return &Bot{cfg: cfg, cli: cli}
}

// API 返回动作调用客户端
func (b *Bot) API() *api.Client { return b.cli }

// OnEvent 注册事件回调, 在会话 goroutine 内按到达顺序依次调用。
// 应在 Start 之前完成注册
func (b *Bot) OnEvent(fn func(event.Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

func (b *Bot) dispatch(ev event.Event) {
	b.mu.Lock()
	handlers := b.handlers
	b.mu.Unlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

// Start 建立事件会话并在后台维持。再次调用会先结束上一条会话。
// 返回前尝试获取登录号信息以验证 API 侧连通。
// 未配置事件地址时不建立会话, 实例仅用于动作调用
func (b *Bot) Start(ctx context.Context) error {
	var info api.LoginInfoResult
	if err := b.cli.Call(ctx, api.GetLoginInfo(), &info); err != nil {
		return err
	}
	log.Infof("登录账号: %v(%v)", info.Nickname, info.UserID)

	if b.cfg.EventURL == "" {
		log.Info("未配置事件地址, 不建立事件连接")
		return nil
	}

	s := NewSession(SessionOptions{
		URL:           b.cfg.EventURL,
		AccessToken:   b.cfg.EventToken(),
		MaxRetries:    b.cfg.MaxRetries,
		RetryInterval: b.cfg.RetryDelay(),
		Handler:       b.dispatch,
	})

	sessCtx, cancel := context.WithCancel(context.Background())
	next := &session{cancel: cancel, done: make(chan struct{})}

	b.mu.Lock()
	prev := b.sess
	b.sess = next
	b.mu.Unlock()
	if prev != nil {
		prev.cancel()
		<-prev.done
	}

	go func() {
		defer close(next.done)
		next.err = s.Run(sessCtx)
	}()
	return nil
}

// Stop 结束事件会话并关闭 API 客户端, 返回时会话已退出。
// 会话的终止原因保留, 仍可通过 Err 查询
func (b *Bot) Stop() {
	b.mu.Lock()
	sess := b.sess
	b.mu.Unlock()
	if sess != nil {
		sess.cancel()
		<-sess.done
	}
	b.closeOnce.Do(b.cli.Close)
}

// Done 返回当前会话的结束信号, 没有会话时返回 nil
func (b *Bot) Done() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sess == nil {
		return nil
	}
	return b.sess.done
}

// Err 返回当前会话的终止原因, 会话未结束时为 nil
func (b *Bot) Err() error {
	b.mu.Lock()
	sess := b.sess
	b.mu.Unlock()
	if sess == nil {
		return nil
	}
	select {
	case <-sess.done:
		return sess.err
	default:
		return nil
	}
}

// SendPrivateMsg 发送私聊消息, 返回消息ID
func (b *Bot) SendPrivateMsg(ctx context.Context, userID int64, msg message.Message) (int64, error) {
	var ret api.MessageIDResult
	if err := b.cli.Call(ctx, api.SendPrivateMsg(userID, msg), &ret); err != nil {
		return 0, err
	}
	return ret.MessageID, nil
}

// SendGroupMsg 发送群消息, 返回消息ID
func (b *Bot) SendGroupMsg(ctx context.Context, groupID int64, msg message.Message) (int64, error) {
	var ret api.MessageIDResult
	if err := b.cli.Call(ctx, api.SendGroupMsg(groupID, msg), &ret); err != nil {
		return 0, err
	}
	return ret.MessageID, nil
}
