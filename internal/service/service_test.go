package service

import (
	"sync"
	"testing"
	"time"

	"geoMaster/internal/auth"
	"geoMaster/internal/testutil"
	"geoMaster/models"
	"geoMaster/repository"
)

const testSecret = "service-secret"

type recorded struct {
	action   models.Action
	username string
	details  map[string]any
}

// memRecorder captures entries synchronously.
type memRecorder struct {
	mu      sync.Mutex
	entries []recorded
}

func (m *memRecorder) Record(action models.Action, username string, details map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, recorded{action, username, details})
}

func (m *memRecorder) count(action models.Action) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.action == action {
			n++
		}
	}
	return n
}

func (m *memRecorder) last() recorded {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1]
}

type fixture struct {
	auth     *AuthService
	features *FeatureService
	users    *repository.UserRepository
	rec      *memRecorder
}

func newFixture(t *testing.T, name string) *fixture {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	users := repository.NewUserRepository(d)
	rec := &memRecorder{}
	return &fixture{
		auth:     NewAuthService(users, rec, testSecret, time.Hour),
		features: NewFeatureService(repository.NewFeatureRepository(d), rec),
		users:    users,
		rec:      rec,
	}
}

func principal(name string, role models.Role) *auth.Principal {
	return &auth.Principal{Name: name, Role: role}
}
