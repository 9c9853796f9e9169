package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/freelance-marketplace/internal/domain"
	"github.com/spec-kit/freelance-marketplace/internal/events"
	"github.com/spec-kit/freelance-marketplace/internal/notify"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []notify.Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, email notify.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

type pushed struct {
	userID string
	note   Notification
}

type fakePublisher struct {
	mu     sync.Mutex
	pushes []pushed
}

func (p *fakePublisher) Publish(_ context.Context, userID string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, pushed{userID: userID, note: payload.(Notification)})
	return nil
}

func wireNotifications(t *testing.T, f *fixture, mailer notify.Mailer) *fakePublisher {
	t.Helper()
	renderer, err := notify.NewRenderer()
	require.NoError(t, err)
	publisher := &fakePublisher{}
	NewNotificationService(NotificationDependencies{
		Dispatcher: f.dispatcher,
		Logger:     zaptest.NewLogger(t),
		Mailer:     mailer,
		Renderer:   renderer,
		Publisher:  publisher,
		UserRepo:   f.store.Users(),
		AppName:    "Marketplace",
	}).RegisterHandlers()
	return publisher
}

func TestNotificationsForMarketplaceEvents(t *testing.T) {
	f := newFixture(t)
	mailer := &fakeMailer{}
	publisher := wireNotifications(t, f, mailer)
	ctx := context.Background()

	client := f.register(t, "Carl", "carl@example.com", domain.RoleClient)
	freelancer := f.register(t, "Fay", "fay@example.com", domain.RoleFreelancer)
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "carl@example.com", mailer.sent[0].ToAddress)
	assert.Contains(t, mailer.sent[0].HTML, "Welcome to Marketplace")

	job := f.postJob(t, client, "Landing page")
	_, err := f.jobs.Hire(ctx, freelancer, job.ID)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 3)
	hiredMail := mailer.sent[2]
	assert.Equal(t, "carl@example.com", hiredMail.ToAddress)
	assert.Contains(t, hiredMail.HTML, "Fay has been hired")
	assert.Contains(t, hiredMail.HTML, "Landing page")

	_, err = f.messages.SendMessage(ctx, client, job.ID, "hello")
	require.NoError(t, err)

	require.Len(t, publisher.pushes, 2)
	assert.Equal(t, client.UserID, publisher.pushes[0].userID)
	assert.Equal(t, events.EventJobHired, publisher.pushes[0].note.Type)
	assert.Equal(t, freelancer.UserID, publisher.pushes[1].userID)
	assert.Equal(t, events.EventMessageSent, publisher.pushes[1].note.Type)
	assert.Empty(t, f.dispatcher.errs)
}

func TestNotificationFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	wireNotifications(t, f, &fakeMailer{err: errors.New("provider down")})

	user, err := f.auth.Register(context.Background(), RegisterInput{
		Name: "Fay", Email: "fay@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	require.Len(t, f.dispatcher.errs, 1)
}
