package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// ErrMailgunNotConfigured 表示缺少 Mailgun API Key 或发件域名。
var ErrMailgunNotConfigured = errors.New("mailgun api key and sender domain are required")

// OutgoingEmail 是交给邮件服务商的一封完整邮件。
type OutgoingEmail struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
}

// EmailProvider 定义事务邮件发送能力，返回服务商分配的消息 ID。
type EmailProvider interface {
	Send(ctx context.Context, email OutgoingEmail) (string, error)
}

// MailgunProvider 通过 Mailgun 发件域名投递邮件。
type MailgunProvider struct {
	client mailgun.Mailgun
}

// NewMailgunProvider 构造 MailgunProvider，apiBase 为空时使用默认（美国区）地址。
func NewMailgunProvider(domain, apiKey, apiBase string) (*MailgunProvider, error) {
	domain = strings.TrimSpace(domain)
	apiKey = strings.TrimSpace(apiKey)
	if domain == "" || apiKey == "" {
		return nil, ErrMailgunNotConfigured
	}

	client := mailgun.NewMailgun(domain, apiKey)
	if base := strings.TrimSpace(apiBase); base != "" {
		client.SetAPIBase(base)
	}
	return &MailgunProvider{client: client}, nil
}

// Send 提交一封邮件，返回 Mailgun 的消息 ID。
func (p *MailgunProvider) Send(ctx context.Context, email OutgoingEmail) (string, error) {
	message := p.client.NewMessage(email.From, email.Subject, email.Text, email.To...)
	if email.HTML != "" {
		message.SetHtml(email.HTML)
	}

	_, id, err := p.client.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("mailgun send: %w", err)
	}
	return id, nil
}

// DispatchResult 描述一次投递尝试的结果，投递失败不会向上返回错误。
type DispatchResult struct {
	Delivered bool
	MessageID string
	Err       error
}

// EmailDispatcher 负责给固定收件人发送日报。
type EmailDispatcher struct {
	provider    EmailProvider
	providerErr error
	fromName    string
	fromEmail   string
	to          string
	location    *time.Location
	now         func() time.Time
}

// DispatcherConfig 汇总发件人、收件人与标题日期所用的时区。
type DispatcherConfig struct {
	FromName  string
	FromEmail string
	To        string
	Location  *time.Location
}

// NewEmailDispatcher 构造 EmailDispatcher。providerErr 非空时表示服务商
// 未能初始化，每次投递都会记录该错误而不中断日报流程。
func NewEmailDispatcher(provider EmailProvider, providerErr error, cfg DispatcherConfig) *EmailDispatcher {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &EmailDispatcher{
		provider:    provider,
		providerErr: providerErr,
		fromName:    strings.TrimSpace(cfg.FromName),
		fromEmail:   strings.TrimSpace(cfg.FromEmail),
		to:          strings.TrimSpace(cfg.To),
		location:    loc,
		now:         time.Now,
	}
}

// SetClock 覆盖当前时间来源，主要用于测试。
func (d *EmailDispatcher) SetClock(now func() time.Time) {
	if now == nil {
		d.now = time.Now
		return
	}
	d.now = now
}

// Subject 返回带当天日期的邮件标题，例如 "Garmin Daily Report - 3/1/2024"。
func (d *EmailDispatcher) Subject() string {
	return "Garmin Daily Report - " + d.now().In(d.location).Format("1/2/2006")
}

func (d *EmailDispatcher) sender() string {
	if d.fromName == "" {
		return d.fromEmail
	}
	return fmt.Sprintf("%s <%s>", d.fromName, d.fromEmail)
}

// Dispatch 尽力投递一封日报，失败只记录日志并体现在返回结果中。
func (d *EmailDispatcher) Dispatch(ctx context.Context, runID string, email ComposedEmail) DispatchResult {
	err := d.providerErr
	if err == nil && d.provider == nil {
		err = ErrMailgunNotConfigured
	}
	if err == nil && d.to == "" {
		err = errors.New("recipient address is not configured")
	}
	if err != nil {
		log.Printf("[MAIL %s] error sending email: %v", runID, err)
		return DispatchResult{Err: err}
	}

	id, err := d.provider.Send(ctx, OutgoingEmail{
		From:    d.sender(),
		To:      []string{d.to},
		Subject: d.Subject(),
		Text:    email.Text,
		HTML:    email.HTML,
	})
	if err != nil {
		log.Printf("[MAIL %s] error sending email: %v", runID, err)
		return DispatchResult{Err: err}
	}

	log.Printf("[MAIL %s] email sent successfully (id=%s)", runID, id)
	return DispatchResult{Delivered: true, MessageID: id}
}
