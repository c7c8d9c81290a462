package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
)

// Response снимок ответа роутера.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	// JSON сериализуется в тело запроса. nil - запрос без тела.
	JSON any
}

type RequestOptions struct {
	headers map[string]string
}

// MakeRequest прогоняет запрос через роутер и вычитывает ответ целиком.
func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) (*Response, error) {
	options := RequestOptions{
		headers: map[string]string{"Content-Type": "application/json"},
	}
	for _, opt := range opts {
		opt(&options)
	}

	var body io.Reader
	if args.JSON != nil {
		raw, err := json.Marshal(args.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(args.Method, args.URL, body)
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()
	args.Router.ServeHTTP(recorder, request)

	result := recorder.Result()
	defer result.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{Status: result.StatusCode, Header: result.Header, Body: raw}, nil
}

func WithHeader(name, value string) func(*RequestOptions) {
	return func(o *RequestOptions) {
		o.headers[name] = value
	}
}

// WithBearer добавляет заголовок Authorization. Пустой токен - анонимный запрос.
func WithBearer(token string) func(*RequestOptions) {
	return func(o *RequestOptions) {
		if token == "" {
			return
		}
		o.headers["Authorization"] = "Bearer " + token
	}
}
