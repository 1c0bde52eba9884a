package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/fieldsuite/admin-service/internal/config"
	"github.com/fieldsuite/admin-service/internal/events"
)

// NotificationService turns domain events into outbound notifications.
// Delivery is fire and forget; a failed send is logged and never surfaces to
// the request that triggered it.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventClientCreated, n.handleClientCreated)
	n.dispatcher.Subscribe(events.EventAssignmentCreated, n.handleAssignmentCreated)
	n.dispatcher.Subscribe(events.EventAssignmentStatusChanged, n.handleAssignmentStatusChanged)
	n.dispatcher.Subscribe(events.EventEventStatusChanged, n.handleEventStatusChanged)
	n.dispatcher.Subscribe(events.EventPlanChanged, n.handlePlanChanged)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

func (n *NotificationService) handleClientCreated(_ context.Context, event events.Event) error {
	n.logger.Info("ClientCreated", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleAssignmentCreated(_ context.Context, event events.Event) error {
	n.logger.Info("AssignmentCreated", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.AssignmentCreatedPayload)
	if !ok || payload.EmployeeEmail == "" {
		return nil
	}
	n.sendAsync(payload.EmployeeEmail,
		"New assignment: "+payload.EventName,
		fmt.Sprintf("You have been assigned to %s. Please accept or reject the assignment.", payload.EventName))
	return nil
}

func (n *NotificationService) handleAssignmentStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("AssignmentStatusChanged", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleEventStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("EventStatusChanged", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePlanChanged(_ context.Context, event events.Event) error {
	n.logger.Info("PlanChanged", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("PasswordResetRequested", zap.String("user_id", payload.UserID))
	n.sendAsync(payload.Email,
		"Password reset",
		"A password reset was requested for your account. Reset token: "+payload.Token)
	return nil
}

// sendAsync delivers an email on its own goroutine. Without an SMTP host the
// message is logged only, which keeps development environments mail-free.
func (n *NotificationService) sendAsync(to, subject, body string) {
	if strings.TrimSpace(n.cfg.SMTPHost) == "" {
		n.logger.Debug("email delivery skipped",
			zap.String("to", to),
			zap.String("subject", subject))
		return
	}
	go func() {
		if err := n.send(to, subject, body); err != nil {
			n.logger.Error("email delivery failed",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err))
		}
	}()
}

func (n *NotificationService) send(to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.EmailFrom); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(n.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.SMTPUsername),
		mail.WithPassword(n.cfg.SMTPPassword),
	}
	client, err := mail.NewClient(n.cfg.SMTPHost, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(context.Background(), msg)
}
