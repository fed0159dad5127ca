package service

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Strob0t/SkillSprint/internal/domain"
	"github.com/Strob0t/SkillSprint/internal/domain/progress"
	"github.com/Strob0t/SkillSprint/internal/domain/roadmap"
	"github.com/Strob0t/SkillSprint/internal/domain/task"
	"github.com/Strob0t/SkillSprint/internal/domain/user"
)

// mockStore is an in-memory database.Store for service tests.
type mockStore struct {
	mu     sync.Mutex
	nextID int64
	users  []user.User
	tasks  []task.Task
	items  []roadmap.Item

	// countCalls counts summary queries to observe caching.
	countCalls int

	// Error hooks.
	createUserErr error
	getUserErr    error
	countTasksErr error
	replaceErr    error
	listItemsErr  error
}

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockStore) CreateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createUserErr != nil {
		return m.createUserErr
	}
	for i := range m.users {
		if m.users[i].Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now()
	m.users = append(m.users, *u)
	return nil
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getUserErr != nil {
		return nil, m.getUserErr
	}
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListUsers(_ context.Context) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.users), nil
}

func (m *mockStore) UpdateUserPassword(_ context.Context, email, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			m.users[i].PasswordHash = hash
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) CountTasks(_ context.Context, userID int64) (progress.Ratio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCalls++
	if m.countTasksErr != nil {
		return progress.Ratio{}, m.countTasksErr
	}
	var r progress.Ratio
	for _, t := range m.tasks {
		if t.UserID == userID {
			r.Total++
			if t.Done {
				r.Done++
			}
		}
	}
	return r, nil
}

func (m *mockStore) ListTasks(_ context.Context, userID int64) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []task.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *mockStore) ListRecentTasks(_ context.Context, userID int64, limit int) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []task.Task{}
	for i := len(m.tasks) - 1; i >= 0 && len(out) < limit; i-- {
		if m.tasks[i].UserID == userID {
			out = append(out, m.tasks[i])
		}
	}
	return out, nil
}

func (m *mockStore) CreateTask(_ context.Context, t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	m.tasks = append(m.tasks, *t)
	return nil
}

func (m *mockStore) ToggleTask(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id && m.tasks[i].UserID == userID {
			m.tasks[i].Done = !m.tasks[i].Done
		}
	}
	return nil
}

func (m *mockStore) DeleteTask(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = slices.DeleteFunc(m.tasks, func(t task.Task) bool {
		return t.ID == id && t.UserID == userID
	})
	return nil
}

func (m *mockStore) CountRoadmapItems(_ context.Context, userID int64, name string) (progress.Ratio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCalls++
	var r progress.Ratio
	for _, it := range m.items {
		if it.UserID == userID && (name == "" || it.Name == name) {
			r.Total++
			if it.Done() {
				r.Done++
			}
		}
	}
	return r, nil
}

func (m *mockStore) ListRoadmapItems(_ context.Context, userID int64, name string) ([]roadmap.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listItemsErr != nil {
		return nil, m.listItemsErr
	}
	out := []roadmap.Item{}
	for _, it := range m.items {
		if it.UserID == userID && it.Name == name {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := strings.Compare(out[i].Goal, out[j].Goal); c != 0 {
			return c < 0
		}
		return out[i].Week < out[j].Week
	})
	return out, nil
}

func (m *mockStore) ListRoadmapNames(_ context.Context, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCalls++
	names := []string{}
	for _, it := range m.items {
		if it.UserID == userID && !slices.Contains(names, it.Name) {
			names = append(names, it.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *mockStore) ReplaceRoadmap(_ context.Context, userID int64, name string, items []roadmap.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.items = slices.DeleteFunc(m.items, func(it roadmap.Item) bool {
		return it.UserID == userID && it.Name == name
	})
	for _, it := range items {
		it.ID = m.id()
		it.UserID = userID
		it.Name = name
		m.items = append(m.items, it)
	}
	return nil
}

func (m *mockStore) MarkRoadmapItemDone(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].UserID == userID {
			m.items[i].Status = roadmap.StatusDone
		}
	}
	return nil
}

func (m *mockStore) DeleteRoadmap(_ context.Context, userID int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = slices.DeleteFunc(m.items, func(it roadmap.Item) bool {
		return it.UserID == userID && it.Name == name
	})
	return nil
}

func (m *mockStore) Ping(context.Context) error { return nil }
func (m *mockStore) Close() error               { return nil }

// mapCache is an in-memory cache.Cache that ignores TTLs.
type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deletes++
	return nil
}
