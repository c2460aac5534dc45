package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	"github.com/oksasatya/go-ddd-todo/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

type fixture struct {
	store     *memory.Store
	jwt       *helpers.JWTManager
	accounts  *AccountService
	tasks     *TaskService
	validator *TokenValidator
	events    *recordingPublisher
	clock     *fakeClock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	jwt, err := helpers.NewJWTManager("test-secret")
	require.NoError(t, err)

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	events := &recordingPublisher{}

	accounts := NewAccountService(store.Identities(), NewCredentialStore(bcrypt.MinCost), NewTokenIssuer(jwt), nil)
	accounts.now = clock.Now
	accounts.Events = events

	tasks := NewTaskService(store.Tasks(), nil)
	tasks.now = clock.Now

	return &fixture{
		store:     store,
		jwt:       jwt,
		accounts:  accounts,
		tasks:     tasks,
		validator: NewTokenValidator(jwt, store.Identities()),
		events:    events,
		clock:     clock,
	}
}

func (f *fixture) signupAndLogin(t *testing.T, handle, password string) (*entity.Identity, string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.accounts.Signup(ctx, handle, password)
	require.NoError(t, err)
	res, err := f.accounts.Login(ctx, handle, password)
	require.NoError(t, err)
	return res.Identity, res.Token
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []AccountEvent
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := body.(AccountEvent); ok {
		p.events = append(p.events, ev)
	}
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type stubActivity struct {
	logins  map[string]time.Time
	changes map[string]time.Time
	forgot  []string
	loadErr error
}

func newStubActivity() *stubActivity {
	return &stubActivity{logins: map[string]time.Time{}, changes: map[string]time.Time{}}
}

func (a *stubActivity) RecordLogin(_ context.Context, id string, at time.Time) error {
	a.logins[id] = at
	return nil
}

func (a *stubActivity) RecordPasswordChange(_ context.Context, id string, at time.Time) error {
	a.changes[id] = at
	return nil
}

func (a *stubActivity) Load(_ context.Context, id string) (Activity, error) {
	if a.loadErr != nil {
		return Activity{}, a.loadErr
	}
	var act Activity
	if v, ok := a.logins[id]; ok {
		act.LastLoginAt = &v
	}
	if v, ok := a.changes[id]; ok {
		act.PasswordChangedAt = &v
	}
	return act, nil
}

func (a *stubActivity) Forget(_ context.Context, id string) error {
	a.forgot = append(a.forgot, id)
	return nil
}

// stubIndex matches every task containing the query, regardless of owner,
// so tests can check that foreign hits are filtered out.
type stubIndex struct {
	docs map[int64]entity.Task
	err  error
}

func newStubIndex() *stubIndex { return &stubIndex{docs: map[int64]entity.Task{}} }

func (x *stubIndex) Index(_ context.Context, t entity.Task) error {
	x.docs[t.ID] = t
	return nil
}

func (x *stubIndex) Remove(_ context.Context, id int64) error {
	delete(x.docs, id)
	return nil
}

func (x *stubIndex) Search(_ context.Context, _ string, q string, size int) ([]int64, error) {
	if x.err != nil {
		return nil, x.err
	}
	var ids []int64
	for id, t := range x.docs {
		if strings.Contains(t.Text, q) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type stubExporter struct {
	owner string
	tasks []entity.Task
}

func (e *stubExporter) Export(_ context.Context, owner string, tasks []entity.Task) (string, error) {
	e.owner = owner
	e.tasks = tasks
	return "https://storage.googleapis.com/bucket/exports/" + owner + ".json", nil
}

var errBoom = errors.New("boom")
