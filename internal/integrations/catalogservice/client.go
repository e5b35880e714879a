package catalogservice

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// Client клиент каталога бронируемых сущностей
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetEntity получает сущность по типу и идентификатору.
// 400 от каталога означает некорректный идентификатор (ErrInvalidEntityID), 404 - ErrEntityNotFound.
func (c *Client) GetEntity(ctx context.Context, kind, entityID string) (*Entity, error) {
	endpoint := fmt.Sprintf("%s/internal/entities/%s/%s", c.baseURL, url.PathEscape(kind), url.PathEscape(entityID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, ErrInvalidEntityID
	case http.StatusNotFound:
		return nil, ErrEntityNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var entity Entity
	if err := json.NewDecoder(resp.Body).Decode(&entity); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &entity, nil
}

// Exists проверяет существование сущности.
// found=false без ошибки, если сущность не найдена; некорректный идентификатор остается ошибкой.
func (c *Client) Exists(ctx context.Context, kind, entityID string) (bool, *Entity, error) {
	entity, err := c.GetEntity(ctx, kind, entityID)
	if err == ErrEntityNotFound {
		c.log.Info("Entity not found in catalog: kind=%s, id=%s", kind, entityID)
		return false, nil, nil
	}
	if err != nil {
		c.log.Error("Catalog lookup failed: kind=%s, id=%s: %v", kind, entityID, err)
		return false, nil, err
	}
	return true, entity, nil
}
