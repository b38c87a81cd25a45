package pushover

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
)

// MessagesEndpoint is the Pushover Message API URL.
const MessagesEndpoint = "https://api.pushover.net/1/messages.json"

// Client submits messages to the Pushover API.
type Client struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a Client. A nil httpClient falls back to http.DefaultClient.
func NewClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		HTTPClient: httpClient,
		Logger:     logger,
	}
}

// Push performs a single POST of the encoded message and returns the response
// as received. The status code is not inspected and the caller owns the body.
func (clientInstance *Client) Push(ctx context.Context, message Message) (*http.Response, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if encodeErr := message.WriteMultipart(writer); encodeErr != nil {
		return nil, fmt.Errorf("encode message: %w", encodeErr)
	}

	requestInstance, requestError := http.NewRequestWithContext(ctx, http.MethodPost, MessagesEndpoint, &body)
	if requestError != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, requestError)
	}
	requestInstance.Header.Set("Content-Type", writer.FormDataContentType())

	clientInstance.Logger.Debug("Submitting Pushover message",
		"endpoint", MessagesEndpoint,
		"bytes", body.Len(),
		"priority", message.PriorityValue().String(),
		"attachment", message.Attachment != nil,
	)

	responseInstance, responseError := clientInstance.HTTPClient.Do(requestInstance)
	if responseError != nil {
		clientInstance.Logger.Error("Pushover request error", "error", responseError)
		return nil, fmt.Errorf("%w: %w", ErrTransport, responseError)
	}

	clientInstance.Logger.Debug("Pushover responded", "status", responseInstance.StatusCode)
	return responseInstance, nil
}
