package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/apresmonbac/orientation/internal/models"
	"github.com/apresmonbac/orientation/internal/providers/email"
	pgrepo "github.com/apresmonbac/orientation/internal/repositories/postgres"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/google/uuid"
)

type fakeRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Application

	createCalls int
	attachCalls int
	deleteCalls int

	createErr error
	attachErr error
	deleteErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]*models.Application{}}
}

func (r *fakeRepo) Create(ctx context.Context, a *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.createErr != nil {
		return r.createErr
	}
	a.ID = uuid.NewString()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	r.rows[a.ID] = &cp
	return nil
}

func (r *fakeRepo) AttachFile(ctx context.Context, id, storedPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachCalls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.attachErr != nil {
		return r.attachErr
	}
	row, ok := r.rows[id]
	if !ok || row.LettreDemandeURL != nil {
		return utils.ErrNotFound
	}
	p := storedPath
	row.LettreDemandeURL = &p
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, f pgrepo.ApplicationFilter) ([]models.Application, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, 0, r.createErr
	}
	out := []models.Application{}
	for _, row := range r.rows {
		if f.StageID == "" || row.StageID == f.StageID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if f.Offset >= len(out) {
		return []models.Application{}, total, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	deleteErr error
	deleted   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Upload(ctx context.Context, objectName string, _ string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	if _, exists := s.objects[objectName]; exists {
		return "", errors.New("object exists")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[objectName] = b
	return objectName, nil
}

func (s *fakeStore) Delete(_ context.Context, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, objectName)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, objectName)
	return nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type fakeSigner struct {
	err error
}

func (f fakeSigner) SignedGetURL(_ context.Context, objectName string, ttl time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.test/" + objectName + "?ttl=" + ttl.String(), nil
}

type postingMap map[string]models.Posting

func (m postingMap) Posting(id string) (models.Posting, bool) {
	p, ok := m[id]
	return p, ok
}

// fakeSender fails the first failures[to] sends to a recipient; a negative
// count fails forever.
type fakeSender struct {
	mu       sync.Mutex
	failures map[string]int
	calls    map[string]int
	sent     map[string]email.Message
	times    map[string][]time.Time
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		failures: map[string]int{},
		calls:    map[string]int{},
		sent:     map[string]email.Message{},
		times:    map[string][]time.Time{},
	}
}

func (f *fakeSender) Send(ctx context.Context, msg email.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	to := msg.To[0]
	f.calls[to]++
	f.times[to] = append(f.times[to], time.Now())
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if n := f.failures[to]; n != 0 {
		if n > 0 {
			f.failures[to] = n - 1
		}
		return "", errors.New("provider unavailable")
	}
	f.sent[to] = msg
	return "msg-" + to, nil
}

func (f *fakeSender) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}
