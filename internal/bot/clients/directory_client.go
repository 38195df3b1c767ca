package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/central-university-dev/go-commander/internal/common/httputil"
	"github.com/central-university-dev/go-commander/internal/config"
	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

// DirectoryClient обращается к справочному сервису, который разрешает
// сырые аргументы команд (@username, числовой ID) в пользователей и чаты.
type DirectoryClient struct {
	client  *resty.Client
	baseURL string
	logger  *slog.Logger
}

func NewDirectoryClient(baseURL string, cfg *config.Config, logger *slog.Logger) *DirectoryClient {
	if baseURL == "" {
		baseURL = "http://commander_directory:8090"
	}

	client := httputil.NewResilientClient(cfg, logger, "directory_service")

	return &DirectoryClient{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (c *DirectoryClient) ResolveUser(ctx context.Context, raw string) (*models.User, error) {
	var user models.User

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&user).
		Get(fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(raw)))
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе к справочнику: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, &domainerrors.ErrEntityNotFound{Kind: "пользователь", Raw: raw}
	}

	if !resp.IsSuccess() {
		return nil, &domainerrors.ErrInternalServer{Message: fmt.Sprintf("справочник вернул статус: %d", resp.StatusCode())}
	}

	return &user, nil
}

func (c *DirectoryClient) ResolveChat(ctx context.Context, raw string) (*models.Chat, error) {
	var chat models.Chat

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&chat).
		Get(fmt.Sprintf("%s/chats/%s", c.baseURL, url.PathEscape(raw)))
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе к справочнику: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, &domainerrors.ErrEntityNotFound{Kind: "чат", Raw: raw}
	}

	if !resp.IsSuccess() {
		return nil, &domainerrors.ErrInternalServer{Message: fmt.Sprintf("справочник вернул статус: %d", resp.StatusCode())}
	}

	return &chat, nil
}
