package emulator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/raywall/fake-api-toolkit/pkg/collections"
	"github.com/raywall/fake-api-toolkit/pkg/jsonpath"
	"github.com/rs/zerolog"
)

// NewHandler cria o handler de um verbo. Dados de coleções são consultados a
// cada requisição, então coleções carregadas depois do mapeamento também valem.
func NewHandler(route RouteConfig, q collections.Querier) http.HandlerFunc {
	delay, _ := time.ParseDuration(route.Delay)

	return func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		// Se for resposta estática (sem data/params)
		if route.isStatic() {
			sendResponse(w, r, route.Response)
			return
		}

		data := route.Data
		if route.Collection != "" {
			var items []any
			var ok bool
			if q != nil {
				items, ok = q.Collection(route.Collection)
			}
			if !ok {
				sendResponse(w, r, &Response{
					Status: http.StatusNotFound,
					Body:   map[string]string{"error": fmt.Sprintf("collection %q not found", route.Collection)},
				})
				return
			}
			data = items
		}

		params := make(map[string]string)

		// Extrair path params (via mux)
		vars := mux.Vars(r)
		for _, p := range route.PathParams {
			if value, ok := vars[p.Name]; ok {
				params[p.MapsTo] = value
			}
		}

		// Extrair query params
		query := r.URL.Query()
		for _, p := range route.QueryParams {
			if value := query.Get(p.Name); value != "" {
				params[p.MapsTo] = value
			}
		}

		var matches []interface{}
		for _, item := range data {
			if len(params) == 0 {
				matches = append(matches, item)
				continue
			}
			if _, ok := item.(map[string]interface{}); !ok {
				continue // Skip se não for map
			}
			match := true
			for field, value := range params {
				itemValue, err := jsonpath.Lookup(item, field)
				if err != nil || !valuesMatch(itemValue, value) {
					match = false
					break
				}
			}
			if match {
				matches = append(matches, item)
			}
		}

		if len(params) > 0 && len(matches) == 0 {
			resp := route.ResponseOnNoMatch
			if resp == nil {
				resp = &Response{Status: http.StatusNotFound, Body: map[string]string{"error": "Not found"}}
			}
			sendResponse(w, r, resp)
			return
		}

		resp := Response{Status: http.StatusOK}
		if route.ResponseOnMatch != nil {
			resp = *route.ResponseOnMatch
		}

		if resp.Body == nil {
			if len(params) > 0 && len(matches) == 1 {
				resp.Body = matches[0]
			} else if matches == nil {
				resp.Body = []interface{}{}
			} else {
				resp.Body = matches
			}
		}
		sendResponse(w, r, &resp)
	}
}

func sendResponse(w http.ResponseWriter, r *http.Request, resp *Response) {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}

	if text, ok := resp.Body.(string); ok {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(text))
		return
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	if resp.Body != nil {
		if err := json.NewEncoder(w).Encode(resp.Body); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("Erro ao encode response")
		}
	}
}

func valuesMatch(a interface{}, b string) bool {
	switch v := a.(type) {
	case string:
		return v == b
	case float64:
		f, err := strconv.ParseFloat(b, 64)
		return err == nil && v == f
	case int:
		i, err := strconv.Atoi(b)
		return err == nil && v == i
	case int64:
		i, err := strconv.ParseInt(b, 10, 64)
		return err == nil && v == i
	case bool:
		return strings.ToLower(b) == fmt.Sprintf("%v", v)
	default:
		return false
	}
}
