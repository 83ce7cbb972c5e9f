package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/repository/repotest"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway postgres with the schema applied when
// GO_TEST_INTEGRATION is set.
func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("set GO_TEST_INTEGRATION=1 to run postgres integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "meetmatch",
				"POSTGRES_PASSWORD": "meetmatch",
				"POSTGRES_DB":       "meetmatch",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=meetmatch password=meetmatch dbname=meetmatch sslmode=disable", host, port.Port())
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Migrate(ctx, db), "schema must be re-appliable")
	return db
}

func TestPostgresRepositories(t *testing.T) {
	db := startPostgres(t)

	repotest.Run(t, repotest.Repositories{
		Users:       NewUserRepository(db),
		Profiles:    NewProfileRepository(db),
		Connections: NewConnectionRepository(db),
		Messages:    NewMessageRepository(db),
	}, func(t *testing.T, u *domain.User) {
		_, err := db.Exec(`INSERT INTO users (id, name, username, profile_pic) VALUES ($1, $2, $3, $4)`,
			u.ID, u.Name, u.Username, u.ProfilePic)
		require.NoError(t, err)
	})
}
