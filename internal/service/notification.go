package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"bizledger.com/internal/constants"
	"bizledger.com/internal/domain"
	"bizledger.com/internal/event"
)

var mailTemplate = template.Must(template.New("mail").Parse(
	`<p>Hi {{.Username}},</p><p>Click <a href="{{.Link}}">here</a> to {{.Action}}.</p>`))

type mailSpec struct {
	subject string
	path    string
	action  string
}

var accountMails = map[string]mailSpec{
	constants.EventUserRegistered:         {"Verify Your Email", "/verify-email", "verify your email"},
	constants.EventVerificationResent:     {"Resend: Verify Your Email", "/verify-email", "verify your email"},
	constants.EventPasswordResetRequested: {"Reset Password", "/reset-password", "reset your password"},
}

// NotificationService 订阅账户事件，生成邮件并写入队列
type NotificationService struct {
	queue     domain.MailQueue
	publicURL string
	log       *zap.Logger
}

func NewNotificationService(queue domain.MailQueue, publicURL string, log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{
		queue:     queue,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log.Named("notification"),
	}
}

// Register 订阅所有账户事件
func (n *NotificationService) Register(bus *event.Bus) {
	for eventType := range accountMails {
		bus.Subscribe(eventType, n.Handle)
	}
}

// Handle 处理一个账户事件
func (n *NotificationService) Handle(ctx context.Context, e event.Event) error {
	spec, ok := accountMails[e.Type]
	if !ok {
		return nil
	}
	data, ok := e.Data.(AccountEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e.Data, e.Type)
	}

	msg, err := n.render(spec, data)
	if err != nil {
		return err
	}
	if err := n.queue.Enqueue(ctx, msg); err != nil {
		return err
	}

	n.log.Debug("mail queued", zap.String("event", e.Type), zap.Uint("user_id", data.UserID))
	return nil
}

func (n *NotificationService) render(spec mailSpec, data AccountEvent) (domain.MailMessage, error) {
	link := n.publicURL + spec.path + "?token=" + url.QueryEscape(data.Token)

	var buf bytes.Buffer
	err := mailTemplate.Execute(&buf, struct {
		Username string
		Link     string
		Action   string
	}{data.Username, link, spec.action})
	if err != nil {
		return domain.MailMessage{}, fmt.Errorf("render mail: %w", err)
	}

	return domain.MailMessage{
		To:      data.Email,
		Subject: spec.subject,
		HTML:    buf.String(),
	}, nil
}
