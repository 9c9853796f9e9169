package service

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/freelance-marketplace/internal/events"
	"github.com/spec-kit/freelance-marketplace/internal/notify"
	"github.com/spec-kit/freelance-marketplace/internal/repository"
)

// NotificationService turns domain events into emails and real-time pushes.
// Every handler is best-effort: errors go back to the dispatcher, which logs them.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	mailer     notify.Mailer
	renderer   *notify.Renderer
	publisher  notify.Publisher
	users      repository.UserRepository
	appName    string
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Mailer     notify.Mailer
	Renderer   *notify.Renderer
	Publisher  notify.Publisher
	UserRepo   repository.UserRepository
	AppName    string
}

// Notification is the JSON document pushed on a user's channel.
type Notification struct {
	Type    events.EventType `json:"type"`
	EventID string           `json:"event_id"`
	Payload any              `json:"payload"`
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		logger:     logger,
		mailer:     deps.Mailer,
		renderer:   deps.Renderer,
		publisher:  deps.Publisher,
		users:      deps.UserRepo,
		appName:    deps.AppName,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventJobHired, n.handleJobHired)
	n.dispatcher.Subscribe(events.EventMessageSent, n.handleMessageSent)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("UserRegistered", zap.String("user_id", payload.UserID))

	return n.sendEmail(ctx, notify.TemplateWelcome, payload.Name, payload.Email,
		fmt.Sprintf("Welcome to %s", n.appName),
		fiber.Map{
			"name":  payload.Name,
			"email": payload.Email,
			"role":  payload.Role,
			"app":   n.appName,
		})
}

func (n *NotificationService) handleJobHired(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.JobHiredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("JobHired", zap.String("job_id", payload.JobID), zap.String("freelancer_id", payload.FreelancerID))

	pushErr := n.push(ctx, payload.ClientID, event)

	client, err := n.users.GetByID(ctx, payload.ClientID)
	if err != nil {
		return fmt.Errorf("load client %s: %w", payload.ClientID, err)
	}
	freelancerName := payload.FreelancerID
	if freelancer, err := n.users.GetByID(ctx, payload.FreelancerID); err == nil {
		freelancerName = freelancer.Name
	}

	if err := n.sendEmail(ctx, notify.TemplateJobHired, client.Name, client.Email,
		fmt.Sprintf("%s was hired for %q", freelancerName, payload.Title),
		fiber.Map{
			"client_name":     client.Name,
			"freelancer_name": freelancerName,
			"title":           payload.Title,
		}); err != nil {
		return err
	}
	return pushErr
}

func (n *NotificationService) handleMessageSent(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessageSentPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Debug("MessageSent", zap.String("job_id", payload.JobID), zap.String("message_id", payload.MessageID))
	return n.push(ctx, payload.ReceiverID, event)
}

func (n *NotificationService) sendEmail(ctx context.Context, template, toName, toAddress, subject string, data fiber.Map) error {
	if n.mailer == nil || n.renderer == nil {
		return nil
	}
	html, err := n.renderer.Render(template, data)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, notify.Email{
		ToName:    toName,
		ToAddress: toAddress,
		Subject:   subject,
		HTML:      html,
	})
}

func (n *NotificationService) push(ctx context.Context, userID string, event events.Event) error {
	if n.publisher == nil {
		return nil
	}
	if err := n.publisher.Publish(ctx, userID, Notification{
		Type:    event.Type,
		EventID: event.ID,
		Payload: event.Payload,
	}); err != nil {
		return fmt.Errorf("push %s to %s: %w", event.Type, userID, err)
	}
	return nil
}
