// Package flowfakes provides hand-written fakes for the authflow
// collaborator interfaces, recording calls for assertions.
package flowfakes

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopframe/go-shop-auth/authflow"
	"github.com/shopframe/go-shop-auth/provision"
	"github.com/shopframe/go-shop-auth/sessionstore"
)

var _ authflow.SessionStore = (*FakeSessionStore)(nil)

type FakeSessionStore struct {
	lock    sync.Mutex
	Records map[string]sessionstore.Record
	Tokens  []string
	PutErr  error
	Deleted []string
}

func NewFakeSessionStore() *FakeSessionStore {
	return &FakeSessionStore{Records: make(map[string]sessionstore.Record)}
}

func (f *FakeSessionStore) Put(ctx context.Context, shop string, record sessionstore.Record) (string, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.PutErr != nil {
		return "", f.PutErr
	}
	f.Records[shop] = record
	token := uuid.New().String()
	f.Tokens = append(f.Tokens, token)
	return token, nil
}

func (f *FakeSessionStore) Delete(ctx context.Context, shop string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	delete(f.Records, shop)
	f.Deleted = append(f.Deleted, shop)
	return nil
}

var _ authflow.InstallQueue = (*FakeInstallQueue)(nil)

type WebhookCall struct {
	Shop  string
	Token string
	Hooks []provision.Webhook
}

type ScriptTagCall struct {
	Shop  string
	Token string
	Tags  []provision.ScriptTag
}

type FakeInstallQueue struct {
	lock           sync.Mutex
	WebhookCalls   []WebhookCall
	ScriptTagCalls []ScriptTagCall
}

func NewFakeInstallQueue() *FakeInstallQueue {
	return &FakeInstallQueue{}
}

func (f *FakeInstallQueue) EnqueueWebhooks(shop, token string, hooks []provision.Webhook) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.WebhookCalls = append(f.WebhookCalls, WebhookCall{Shop: shop, Token: token, Hooks: hooks})
}

func (f *FakeInstallQueue) EnqueueScriptTags(shop, token string, tags []provision.ScriptTag) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.ScriptTagCalls = append(f.ScriptTagCalls, ScriptTagCall{Shop: shop, Token: token, Tags: tags})
}

var _ authflow.JobRunner = (*FakeJobRunner)(nil)

type FakeJobRunner struct {
	lock      sync.Mutex
	RanNow    []string
	Scheduled []string
	RunErr    error
}

func NewFakeJobRunner() *FakeJobRunner {
	return &FakeJobRunner{}
}

func (f *FakeJobRunner) RunNow(ctx context.Context, shopDomain string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.RanNow = append(f.RanNow, shopDomain)
	return f.RunErr
}

func (f *FakeJobRunner) Schedule(shopDomain string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.Scheduled = append(f.Scheduled, shopDomain)
}
