package mongo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/repository/repotest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const testTimeout = 10 * time.Second

// TestMain starts one MongoDB container for the package when
// GO_TEST_INTEGRATION is set. Each test uses its own database.
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7.0",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}
	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}
	_ = os.Setenv("MONGO_TEST_URI", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

// newTestStore connects to a fresh database with indexes applied.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("set GO_TEST_INTEGRATION=1 to run mongo integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	name := "meetmatch_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	db := client.Database(name)
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	s := NewStore(db)
	require.NoError(t, s.EnsureIndexes(ctx))
	require.NoError(t, s.EnsureIndexes(ctx), "indexes must be re-appliable")
	return s
}

func TestMongoRepositories(t *testing.T) {
	s := newTestStore(t)

	repotest.Run(t, repotest.Repositories{
		Users:       NewUserRepository(s),
		Profiles:    NewProfileRepository(s),
		Connections: NewConnectionRepository(s),
		Messages:    NewMessageRepository(s),
	}, func(t *testing.T, u *domain.User) {
		_, err := s.users.InsertOne(context.Background(), userDocument{
			ID:         u.ID.String(),
			Name:       u.Name,
			Username:   u.Username,
			ProfilePic: u.ProfilePic,
		})
		require.NoError(t, err)
	})
}

func TestMongoProfileUniquePerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := NewProfileRepository(s)
	user := uuid.New()

	for i := 0; i < 3; i++ {
		p := &domain.Profile{UserID: user, IsProfileComplete: true, LastUpdated: time.Now()}
		p.SetTags([]string{fmt.Sprintf("tag-%d", i)}, nil)
		require.NoError(t, repo.UpsertInterests(ctx, p))
	}

	n, err := s.profiles.CountDocuments(ctx, bson.M{"user_id": user.String()})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
