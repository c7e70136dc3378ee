package transport

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

// LambdaHandler adapta eventos do API Gateway para o handler HTTP do fake-api,
// permitindo publicar as mesmas rotas como função Lambda.
type LambdaHandler struct {
	handler http.Handler
}

// NewLambdaHandler cria uma nova instância do adaptador
func NewLambdaHandler(handler http.Handler) *LambdaHandler {
	return &LambdaHandler{handler: handler}
}

// Handle processa a requisição Lambda
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	httpReq, err := toHTTPRequest(ctx, req)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error": "invalid request"}`,
		}, nil
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httpReq)
	return toProxyResponse(rec), nil
}

func toHTTPRequest(ctx context.Context, req events.APIGatewayProxyRequest) (*http.Request, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, err
		}
		body = decoded
	}

	query := url.Values{}
	for k, values := range req.MultiValueQueryStringParameters {
		for _, v := range values {
			query.Add(k, v)
		}
	}
	for k, v := range req.QueryStringParameters {
		if _, ok := query[k]; !ok {
			query.Set(k, v)
		}
	}

	path := req.Path
	if path == "" {
		path = "/"
	}
	target := (&url.URL{Path: path, RawQuery: query.Encode()}).String()

	httpReq, err := http.NewRequestWithContext(ctx, req.HTTPMethod, target, io.NopCloser(strings.NewReader(string(body))))
	if err != nil {
		return nil, err
	}
	httpReq.ContentLength = int64(len(body))
	for k, values := range req.MultiValueHeaders {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}
	for k, v := range req.Headers {
		if httpReq.Header.Get(k) == "" {
			httpReq.Header.Set(k, v)
		}
	}
	return httpReq, nil
}

func toProxyResponse(rec *httptest.ResponseRecorder) events.APIGatewayProxyResponse {
	resp := events.APIGatewayProxyResponse{
		StatusCode:        rec.Code,
		Headers:           make(map[string]string),
		MultiValueHeaders: make(map[string][]string),
	}
	for k, values := range rec.Header() {
		resp.MultiValueHeaders[k] = values
		if len(values) > 0 {
			resp.Headers[k] = values[0]
		}
	}

	body := rec.Body.Bytes()
	if utf8.Valid(body) {
		resp.Body = string(body)
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(body)
		resp.IsBase64Encoded = true
	}
	return resp
}
