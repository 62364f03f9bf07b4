package e2e

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/app"
	"github.com/nexus/jobboard/internal/config"
	"github.com/nexus/jobboard/internal/infrastructure/database"
	testconfig "github.com/nexus/jobboard/internal/tests/config"
)

// outbox records every email the application hands to its queue
type outbox struct {
	mu   sync.Mutex
	jobs []domain.EmailJob
}

var _ domain.EmailQueue = (*outbox)(nil)

func (o *outbox) Enqueue(_ context.Context, job domain.EmailJob) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.jobs = append(o.jobs, job)
	return nil
}

func (o *outbox) Close() error { return nil }

func (o *outbox) sentTo(recipient string) []domain.EmailJob {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []domain.EmailJob
	for _, j := range o.jobs {
		if j.Recipient == recipient {
			out = append(out, j)
		}
	}
	return out
}

// TestSuite is a fully wired application on SQLite and miniredis
type TestSuite struct {
	Config    *config.Config
	Container *app.Container
	Server    *httptest.Server
	Redis     *miniredis.Miniredis
	Outbox    *outbox
	LogHook   *test.Hook
}

func newSuite(t *testing.T, opts ...testconfig.Option) *TestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	cfg := testconfig.New(t, mr.Addr(), opts...)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	db, err := database.Open(cfg.DBDriver, cfg.DSN, log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	box := &outbox{}

	c, err := app.Wire(cfg, log, db, rdb, box)
	require.NoError(t, err)

	srv := httptest.NewServer(c.Router)
	t.Cleanup(func() {
		srv.Close()
		require.NoError(t, c.Close())
	})

	return &TestSuite{
		Config:    cfg,
		Container: c,
		Server:    srv,
		Redis:     mr,
		Outbox:    box,
		LogHook:   hook,
	}
}

// flushEmail waits for in-flight dispatches to reach the outbox
func (s *TestSuite) flushEmail() {
	s.Container.Dispatcher.Wait()
}

// seedUser inserts an active, verified account directly
func (s *TestSuite) seedUser(t *testing.T, u domain.User, password string) *domain.User {
	t.Helper()
	hash, err := s.Container.PasswordSvc.Hash(password)
	require.NoError(t, err)
	u.PasswordHash = hash
	u.IsActive = true
	u.IsVerified = true
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	require.NoError(t, s.Container.UserRepo.Create(context.Background(), &u))
	return &u
}
