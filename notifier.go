package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const callbackPath = "/async_image_upload/presignedurl/"

type HttpNotifier interface {
	Put(ctx context.Context, url string, body interface{}) (int, []byte, error)
}

type HttpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CallbackURL embeds the object key in the callback path template. Each path
// segment of the key is escaped, slashes are kept.
func CallbackURL(baseURL, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimSuffix(baseURL, "/") + callbackPath + strings.Join(segments, "/") + "/"
}

type CallbackNotifier struct {
	client HttpDoer
}

func NewCallbackNotifier(client HttpDoer) *CallbackNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &CallbackNotifier{client: client}
}

// Put sends body as JSON and returns the response status and body as received.
// A non-2xx status is not an error.
func (n *CallbackNotifier) Put(ctx context.Context, url string, body interface{}) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal callback body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("callback request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read callback response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
