package service

import (
	"context"
	"errors"
	"sync"

	"github.com/cafeteria/portal-system/internal/core/domain"
	"github.com/cafeteria/portal-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory account repository
// ---------------------------------------------------------------------------

type stubRepo struct {
	mu     sync.Mutex
	rows   []domain.Account
	nextID int64
	err    error // when set, every call fails with it
}

func newStubRepo() *stubRepo {
	return &stubRepo{nextID: 1}
}

func (r *stubRepo) indexOf(username string) int {
	for i, row := range r.rows {
		if row.UserName == username {
			return i
		}
	}
	return -1
}

func (r *stubRepo) insertLocked(acc domain.Account) (int64, error) {
	if r.indexOf(acc.UserName) >= 0 {
		return 0, domain.ErrDuplicateUserName
	}
	acc.ID = r.nextID
	r.nextID++
	r.rows = append(r.rows, acc)
	return acc.ID, nil
}

func (r *stubRepo) Insert(_ context.Context, acc domain.Account) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return r.insertLocked(acc)
}

func (r *stubRepo) InsertIfEmpty(_ context.Context, acc domain.Account) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, false, r.err
	}
	if len(r.rows) > 0 {
		return 0, false, nil
	}
	id, err := r.insertLocked(acc)
	return id, err == nil, err
}

func (r *stubRepo) FindByUserName(_ context.Context, username string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return domain.Account{}, r.err
	}
	i := r.indexOf(username)
	if i < 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return r.rows[i], nil
}

func (r *stubRepo) FindAll(_ context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]domain.Account(nil), r.rows...), nil
}

func (r *stubRepo) Update(_ context.Context, username string, acc domain.Account) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	i := r.indexOf(username)
	if i < 0 {
		return 0, nil
	}
	if j := r.indexOf(acc.UserName); j >= 0 && j != i {
		return 0, domain.ErrDuplicateUserName
	}
	acc.ID = r.rows[i].ID
	r.rows[i] = acc
	return 1, nil
}

func (r *stubRepo) Delete(_ context.Context, username string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	i := r.indexOf(username)
	if i < 0 {
		return 0, nil
	}
	r.rows = append(r.rows[:i], r.rows[i+1:]...)
	return 1, nil
}

func (r *stubRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return len(r.rows), nil
}

type stubBackend struct {
	repos map[string]*stubRepo
}

func newStubBackend() *stubBackend {
	b := &stubBackend{repos: make(map[string]*stubRepo)}
	for _, c := range domain.Collections {
		b.repos[c] = newStubRepo()
	}
	return b
}

func (b *stubBackend) Repository(collection string) (ports.AccountRepository, error) {
	r, ok := b.repos[collection]
	if !ok {
		return nil, domain.ErrUnknownCollection
	}
	return r, nil
}

type stubLocker struct {
	held     bool
	err      error
	released int
}

func (l *stubLocker) TryLock(_ context.Context, _ string) (func(), bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func() { l.held = false; l.released++ }, true, nil
}

var errBackendDown = errors.New("backend unavailable")

// ---------------------------------------------------------------------------
// Navigation stubs
// ---------------------------------------------------------------------------

type stubLoader struct {
	builds  map[string]int
	fail    map[string]error
	factory func(name string) any
}

func newStubLoader(factory func(name string) any) *stubLoader {
	return &stubLoader{builds: make(map[string]int), fail: make(map[string]error), factory: factory}
}

func (l *stubLoader) Load(_ context.Context, _ domain.Portal, name string) (ports.View, error) {
	if err, ok := l.fail[name]; ok {
		return ports.View{}, err
	}
	l.builds[name]++
	var ctrl any
	if l.factory != nil {
		ctrl = l.factory(name)
	}
	return ports.View{Name: name, Scene: ports.Scene{Title: name}, Controller: ctrl}, nil
}

type stubSurface struct {
	shown      []string
	fullScreen int
	exitKey    string
}

func (s *stubSurface) Show(v ports.View) { s.shown = append(s.shown, v.Name) }

func (s *stubSurface) SetFullScreen(exitKey string) {
	s.fullScreen++
	s.exitKey = exitKey
}

type stubAlerter struct {
	errors []string
}

func (a *stubAlerter) Success(string, string)                        {}
func (a *stubAlerter) Error(title, _ string)                         { a.errors = append(a.errors, title) }
func (a *stubAlerter) Warning(string, string)                        {}
func (a *stubAlerter) Info(string, string)                           {}
func (a *stubAlerter) Confirm(string, string) bool                   { return false }
func (a *stubAlerter) ConfirmWith(string, string, string, string) bool { return false }

// ---------------------------------------------------------------------------
// Controllers
// ---------------------------------------------------------------------------

type studentController struct {
	student  *domain.Student
	fallback domain.Payload
	calls    int
}

func (c *studentController) SetStudent(s *domain.Student) { c.student = s; c.calls++ }
func (c *studentController) SetPayload(p domain.Payload)  { c.fallback = p; c.calls++ }

type menuController struct {
	manager *domain.MenuManager
	bound   int
	nav     ports.Navigator
}

func (c *menuController) SetMenuManager(m *domain.MenuManager) { c.manager = m }

func (c *menuController) Bind(nav ports.Navigator, _ ports.Services) {
	c.bound++
	c.nav = nav
}

type plainController struct{}
