package usecase

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"log/slog"
	texttemplate "text/template"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/pkg/clock"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/mail"
	"github.com/tenangapp/tenang/internal/pkg/sms"
	"github.com/tenangapp/tenang/internal/pkg/uid"
	"github.com/tenangapp/tenang/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	RegisterUserDevice(ctx context.Context, userID int64, deviceToken, platform string) error
	RemoveUserDevice(ctx context.Context, deviceToken string) error

	GetTemplateByTriggerChannel(ctx context.Context, tk entity.TriggerKey, ch entity.Channel) (*entity.Template, error)
	CreateNotification(ctx context.Context, data entity.CreateNotification) error
	CreateNotificationWithDeliveryLog(ctx context.Context, n entity.CreateNotification, dl entity.CreateDeliveryLog) (int64, error)
	UpdateDeliveryLogStatus(ctx context.Context, u entity.UpdateDeliveryLog) error

	ListNotifications(ctx context.Context, userID int64, status entity.NotificationStatus, limit, offset int32) ([]entity.NotificationItem, error)
	CountUnreadNotifications(ctx context.Context, userID int64) (int64, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID int64) (bool, error)
	MarkNotificationsReadAll(ctx context.Context, userID int64) (int64, error)
	SoftDeleteNotification(ctx context.Context, userID, notificationID int64) (bool, error)
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type repoSMS interface {
	Send(ctx context.Context, msg sms.Message) error
}

type Usecase struct {
	repoDB    repoDB
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	repoMail  repoMail
	repoSMS   repoSMS
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	RepoMail   repoMail
	RepoSMS    repoSMS
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		repoMail:  dep.RepoMail,
		repoSMS:   dep.RepoSMS,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

// renderTemplate renders an HTML body. Unknown keys render as zero values
// rather than failing the whole delivery over a template drift.
func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	return executeTemplate(t, data)
}

// renderTextTemplate renders without HTML escaping, for plain-text bodies
// such as SMS.
func (s *Usecase) renderTextTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := texttemplate.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	return executeTemplate(t, data)
}

func executeTemplate(t interface {
	Execute(w io.Writer, data any) error
}, data map[string]any,
) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Usecase) baseTemplateData() map[string]any {
	return map[string]any{
		"support_email":   "support@tenang.app",
		"company_name":    "Tenang",
		"company_address": "Jl. Kemang Raya No. 8, Jakarta Selatan 12730",
		"year":            s.clock.Now().Format("2006"),
	}
}

func (s *Usecase) getTemplate(ctx context.Context, tk entity.TriggerKey, ch entity.Channel) *entity.Template {
	tpl, err := s.repoDB.GetTemplateByTriggerChannel(ctx, tk, ch)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "notification template not found", "trigger_key", tk, "channel", ch.String())
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get template by trigger channel", "trigger_key", tk, "channel", ch.String(), "error", err)
		return nil
	}

	return tpl
}
