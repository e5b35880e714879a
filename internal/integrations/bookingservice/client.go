package bookingservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// Client клиент сервиса бронирований
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса бронирований
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBooking получает бронирование по идентификатору
func (c *Client) GetBooking(ctx context.Context, bookingID string) (*Booking, error) {
	endpoint := fmt.Sprintf("%s/internal/bookings/%s", c.baseURL, url.PathEscape(bookingID))

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

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, ErrInvalidBookingID
	case http.StatusNotFound:
		c.log.Info("Booking not found: id=%s", bookingID)
		return nil, ErrBookingNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Error("Booking service returned %d for id=%s", resp.StatusCode, bookingID)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var booking Booking
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &booking, nil
}

// Exists проверяет существование бронирования.
// found=false без ошибки, если бронирования нет; некорректный идентификатор остается ошибкой.
func (c *Client) Exists(ctx context.Context, bookingID string) (bool, *Booking, error) {
	booking, err := c.GetBooking(ctx, bookingID)
	if errors.Is(err, ErrBookingNotFound) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return true, booking, nil
}
