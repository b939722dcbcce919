package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"rspo-readiness/internal/model"
	"rspo-readiness/internal/repository"
)

// memProgress round-trips through JSON like the Redis cache does
type memProgress struct {
	mu    sync.Mutex
	items map[string][]byte
	err   error
}

func newMemProgress() *memProgress {
	return &memProgress{items: map[string][]byte{}}
}

func (m *memProgress) Get(_ context.Context, userID string) (*model.AssessmentData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	raw, ok := m.items[userID]
	if !ok {
		return nil, nil
	}
	var data model.AssessmentData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *memProgress) Set(_ context.Context, data *model.AssessmentData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	m.items[data.UserID] = raw
	return nil
}

func (m *memProgress) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID)
	return nil
}

type memResults struct {
	mu        sync.Mutex
	records   map[string]*model.AssessmentRecord
	saveErr   error
	deleteErr error
	saveCalls int
}

func newMemResults() *memResults {
	return &memResults{records: map[string]*model.AssessmentRecord{}}
}

func resultKey(userID string, stage model.Stage) string {
	return userID + "/" + stage.String()
}

func (m *memResults) Save(_ context.Context, record *model.AssessmentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	if record.ID == "" {
		record.ID = "rec-" + resultKey(record.UserID, record.Stage)
	}
	stored := *record
	m.records[resultKey(record.UserID, record.Stage)] = &stored
	return nil
}

func (m *memResults) GetByUserStage(_ context.Context, userID string, stage model.Stage) (*model.AssessmentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[resultKey(userID, stage)], nil
}

func (m *memResults) GetByUser(_ context.Context, userID string) ([]*model.AssessmentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.AssessmentRecord{}
	for _, stage := range model.Stages {
		if r, ok := m.records[resultKey(userID, stage)]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memResults) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, stage := range model.Stages {
		delete(m.records, resultKey(userID, stage))
	}
	return nil
}

type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*model.User
	next  int
	fetch error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*model.User{}}
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.next++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", m.next)
	}
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetch != nil {
		return nil, m.fetch
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type sentEvent struct {
	UserID  string
	Type    string
	Payload interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (b *recordingBroadcaster) BroadcastToUser(userID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{UserID: userID, Type: msgType, Payload: payload})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}

var errBackend = errors.New("backend unavailable")
