package cache_test

import (
	"context"
	"testing"
	"time"

	"log/slog"
	"os"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/central-university-dev/go-commander/internal/bot/cache"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

func TestRedisEntityCache(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	redisC, redisPort := startRedisContainer(t)
	defer func() {
		if err := redisC.Terminate(context.Background()); err != nil {
			t.Logf("Ошибка при остановке Redis контейнера: %v", err)
		}
	}()

	redisURL := "localhost:" + redisPort
	ttl := 30 * time.Second
	entityCache, err := cache.NewRedisEntityCache(redisURL, "", 0, ttl, logger)
	require.NoError(t, err)

	defer entityCache.Close()

	ctx := context.Background()

	user := &models.User{
		ID:        42,
		Username:  "durov",
		FirstName: "Pavel",
	}

	chat := &models.Chat{
		ID:    -100123456789,
		Title: "Команда разработки",
		Type:  models.ChatTypeGroup,
	}

	cachedUser, err := entityCache.GetUser(ctx, "durov")
	require.NoError(t, err)
	assert.Nil(t, cachedUser)

	err = entityCache.SetUser(ctx, "durov", user)
	require.NoError(t, err)

	cachedUser, err = entityCache.GetUser(ctx, "durov")
	require.NoError(t, err)
	require.NotNil(t, cachedUser)

	assert.Equal(t, user.ID, cachedUser.ID)
	assert.Equal(t, user.Username, cachedUser.Username)
	assert.Equal(t, user.FirstName, cachedUser.FirstName)

	cachedChat, err := entityCache.GetChat(ctx, "-100123456789")
	require.NoError(t, err)
	assert.Nil(t, cachedChat)

	err = entityCache.SetChat(ctx, "-100123456789", chat)
	require.NoError(t, err)

	cachedChat, err = entityCache.GetChat(ctx, "-100123456789")
	require.NoError(t, err)
	require.NotNil(t, cachedChat)

	assert.Equal(t, chat.ID, cachedChat.ID)
	assert.Equal(t, chat.Title, cachedChat.Title)
	assert.Equal(t, chat.Type, cachedChat.Type)

	cachedUser, err = entityCache.GetUser(ctx, "-100123456789")
	require.NoError(t, err)
	assert.Nil(t, cachedUser, "ключи пользователей и чатов не должны пересекаться")

	shortTTLCache, err := cache.NewRedisEntityCache(redisURL, "", 0, 1*time.Second, logger)
	require.NoError(t, err)
	defer shortTTLCache.Close()

	err = shortTTLCache.SetUser(ctx, "ephemeral", user)
	require.NoError(t, err)

	cachedUser, err = shortTTLCache.GetUser(ctx, "ephemeral")
	require.NoError(t, err)
	require.NotNil(t, cachedUser)

	time.Sleep(2 * time.Second)

	cachedUser, err = shortTTLCache.GetUser(ctx, "ephemeral")
	require.NoError(t, err)
	assert.Nil(t, cachedUser)
}

func startRedisContainer(t *testing.T) (container testcontainers.Container, port string) {
	ctx := context.Background()

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)

	mappedPort, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return redisC, mappedPort.Port()
}
