// Package testutils provides in-memory stand-ins for the storage layer so
// HTTP handlers can be exercised end to end without a database.
package testutils

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

// MemStore implements both repository interfaces over maps.
type MemStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
	tasks map[uuid.UUID]model.Task
	clock time.Time
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		users: make(map[uuid.UUID]model.User),
		tasks: make(map[uuid.UUID]model.Task),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Users returns the store viewed as a UserRepository.
func (s *MemStore) Users() repository.UserRepository { return memUsers{s} }

// Tasks returns the store viewed as a TaskRepository.
func (s *MemStore) Tasks() repository.TaskRepository { return memTasks{s} }

// TaskCount returns the number of stored tasks owned by ownerID.
func (s *MemStore) TaskCount(ownerID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n
}

// tick advances a monotonic clock so created/updated ordering is deterministic.
func (s *MemStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func cloneUser(u model.User) *model.User {
	u.Tokens = append([]string(nil), u.Tokens...)
	u.Avatar = append([]byte(nil), u.Avatar...)
	if len(u.Avatar) == 0 {
		u.Avatar = nil
	}
	return &u
}

type memUsers struct{ s *MemStore }

func (r memUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.s.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r memUsers) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	user.UpdatedAt = r.s.tick()
	r.s.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

type memTasks struct{ s *MemStore }

func (r memTasks) Create(_ context.Context, task *model.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := r.s.tick()
	task.CreatedAt, task.UpdatedAt = now, now
	r.s.tasks[task.ID] = *task
	return nil
}

func (r memTasks) Update(_ context.Context, task *model.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return repository.ErrNotFound
	}
	task.UpdatedAt = r.s.tick()
	r.s.tasks[task.ID] = *task
	return nil
}

func (r memTasks) FindByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r memTasks) DeleteByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	delete(r.s.tasks, id)
	return &t, nil
}

func (r memTasks) ListByOwner(_ context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tasks := make([]model.Task, 0)
	for _, t := range r.s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		tasks = append(tasks, t)
	}

	// Map iteration is random; creation order stands in for natural order.
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	if filter.Sort != nil {
		sort.SliceStable(tasks, func(i, j int) bool {
			c := compareTasks(tasks[i], tasks[j], filter.Sort.Field)
			if filter.Sort.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	if filter.Skip > 0 {
		if filter.Skip >= len(tasks) {
			return []model.Task{}, nil
		}
		tasks = tasks[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < len(tasks) {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

func (r memTasks) DeleteByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.tasks {
		if t.OwnerID == ownerID {
			delete(r.s.tasks, id)
			n++
		}
	}
	return n, nil
}

func compareTasks(a, b model.Task, field repository.TaskSortField) int {
	switch field {
	case repository.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case repository.SortByDescription:
		return strings.Compare(a.Description, b.Description)
	case repository.SortByCompleted:
		switch {
		case a.Completed == b.Completed:
			return 0
		case !a.Completed:
			return -1
		default:
			return 1
		}
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
