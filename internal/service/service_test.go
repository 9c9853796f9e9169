package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/freelance-marketplace/internal/auth"
	"github.com/spec-kit/freelance-marketplace/internal/config"
	"github.com/spec-kit/freelance-marketplace/internal/domain"
	"github.com/spec-kit/freelance-marketplace/internal/events"
	"github.com/spec-kit/freelance-marketplace/internal/repository/repositorytest"
)

// recordingDispatcher runs handlers inline and remembers every event.
type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
	handlers  map[events.EventType][]events.EventHandler
	errs      []error
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{handlers: make(map[events.EventType][]events.EventHandler)}
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) {
	d.mu.Lock()
	d.published = append(d.published, event)
	handlers := append([]events.EventHandler{}, d.handlers[event.Type]...)
	d.mu.Unlock()
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			d.mu.Lock()
			d.errs = append(d.errs, err)
			d.mu.Unlock()
		}
	}
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

func (d *recordingDispatcher) Wait() {}

func (d *recordingDispatcher) Types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store      *repositorytest.Store
	dispatcher *recordingDispatcher
	auth       *AuthService
	jobs       *JobService
	messages   *MessageService
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 24 * 60,
			BcryptCost:            bcrypt.MinCost,
		},
		Storage: config.StorageConfig{MaxAvatarSize: 2 << 20},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repositorytest.NewStore()
	dispatcher := newRecordingDispatcher()
	return &fixture{
		store:      store,
		dispatcher: dispatcher,
		auth:       NewAuthService(testConfig(), AuthDependencies{UserRepo: store.Users(), Dispatcher: dispatcher}),
		jobs:       NewJobService(JobDependencies{JobRepo: store.Jobs(), Dispatcher: dispatcher}),
		messages: NewMessageService(MessageDependencies{
			JobRepo:     store.Jobs(),
			MessageRepo: store.Messages(),
			Dispatcher:  dispatcher,
		}),
	}
}

func (f *fixture) register(t *testing.T, name, email string, role domain.Role) auth.Principal {
	t.Helper()
	user, err := f.auth.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return auth.Principal{UserID: user.ID, Role: user.Role}
}

func (f *fixture) postJob(t *testing.T, client auth.Principal, title string) *domain.Job {
	t.Helper()
	job, err := f.jobs.CreateJob(context.Background(), client, JobCreateInput{
		Title:       title,
		Description: "build it",
		Budget:      500,
	})
	require.NoError(t, err)
	return job
}
