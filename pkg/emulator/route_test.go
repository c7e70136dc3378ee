package emulator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/raywall/fake-api-toolkit/pkg/collections"
)

// helper para executar request através do roteador (necessário para mux.Vars funcionar)
func executeRequest(handler http.HandlerFunc, method, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/users/list", handler).Methods(method)
	router.HandleFunc("/users/{id}", handler).Methods(method)

	req, _ := http.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// staticQuerier é um collections.Querier em memória.
type staticQuerier collections.Data

func (s staticQuerier) Collection(name string) ([]any, bool) {
	items, ok := s[name]
	return items, ok
}

func (s staticQuerier) All() collections.Data { return collections.Data(s) }

func usersQuerier() staticQuerier {
	return staticQuerier{
		"users": {
			map[string]interface{}{"id": "1", "name": "Alice", "age": 30},
			map[string]interface{}{"id": "2", "name": "Bob", "age": 25},
		},
	}
}

func TestNewHandler_StaticResponse(t *testing.T) {
	route := RouteConfig{
		Response: &Response{Status: 201, Body: map[string]string{"msg": "static"}, Headers: map[string]string{"X-Mock": "true"}},
	}

	rr := executeRequest(NewHandler(route, nil), "GET", "/users/list")

	if rr.Code != 201 {
		t.Errorf("Status esperado 201, recebido %d", rr.Code)
	}
	expected := `{"msg":"static"}`
	if rr.Body.String() != expected+"\n" { // json.Encoder adiciona newline
		t.Errorf("Body incorreto: %s", rr.Body.String())
	}
	if rr.Header().Get("X-Mock") != "true" {
		t.Errorf("Header customizado ausente")
	}
}

func TestNewHandler_CollectionList(t *testing.T) {
	route := RouteConfig{Collection: "users"}

	rr := executeRequest(NewHandler(route, usersQuerier()), "GET", "/users/list")
	if rr.Code != 200 {
		t.Fatalf("Esperado 200, recebido %d", rr.Code)
	}

	var res []map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("Body inválido: %v", err)
	}
	if len(res) != 2 {
		t.Errorf("Esperado 2 usuários, recebido %d", len(res))
	}
}

func TestNewHandler_Collection_PathParams(t *testing.T) {
	route := RouteConfig{
		Collection: "users",
		PathParams: []ParamMapping{
			{Name: "id", MapsTo: "id"},
		},
		ResponseOnNoMatch: &Response{Status: 404, Body: "User not found."},
	}

	handler := NewHandler(route, usersQuerier())

	t.Run("Match Found (Alice)", func(t *testing.T) {
		rr := executeRequest(handler, "GET", "/users/1")
		if rr.Code != 200 {
			t.Errorf("Esperado 200, recebido %d", rr.Code)
		}
		var res map[string]interface{}
		json.Unmarshal(rr.Body.Bytes(), &res)
		if res["name"] != "Alice" {
			t.Errorf("Esperado Alice, recebido %v", res["name"])
		}
	})

	t.Run("No Match", func(t *testing.T) {
		rr := executeRequest(handler, "GET", "/users/999")
		if rr.Code != 404 {
			t.Errorf("Esperado 404, recebido %d", rr.Code)
		}
		if rr.Body.String() != "User not found." {
			t.Errorf("Body incorreto: %q", rr.Body.String())
		}
	})
}

func TestNewHandler_Dynamic_QueryParams(t *testing.T) {
	data := []interface{}{
		map[string]interface{}{"type": "admin", "name": "Alice"},
		map[string]interface{}{"type": "user", "name": "Bob"},
	}

	route := RouteConfig{
		Data: data,
		QueryParams: []ParamMapping{
			{Name: "role", MapsTo: "type"},
		},
	}

	handler := NewHandler(route, nil)

	req, _ := http.NewRequest("GET", "/users?role=admin", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Errorf("Esperado 200, recebido %d", rr.Code)
	}

	var resObj map[string]interface{}
	json.Unmarshal(rr.Body.Bytes(), &resObj)
	if resObj["name"] != "Alice" {
		t.Errorf("Esperado Alice, recebido %v", resObj)
	}
}

func TestNewHandler_NumericMatch(t *testing.T) {
	route := RouteConfig{
		Collection:  "users",
		QueryParams: []ParamMapping{{Name: "age", MapsTo: "age"}},
	}

	req, _ := http.NewRequest("GET", "/users?age=25", nil)
	rr := httptest.NewRecorder()
	NewHandler(route, usersQuerier()).ServeHTTP(rr, req)

	var res map[string]interface{}
	json.Unmarshal(rr.Body.Bytes(), &res)
	if res["name"] != "Bob" {
		t.Errorf("Esperado Bob, recebido %v", res)
	}
}

func TestNewHandler_NestedFieldMatch(t *testing.T) {
	route := RouteConfig{
		Data: []interface{}{
			map[string]interface{}{"id": "1", "address": map[string]interface{}{"city": "Recife"}},
			map[string]interface{}{"id": "2", "address": map[string]interface{}{"city": "Natal"}},
			map[string]interface{}{"id": "3"},
		},
		QueryParams: []ParamMapping{{Name: "city", MapsTo: "address.city"}},
	}

	rr := executeRequest(NewHandler(route, nil), "GET", "/users/list?city=Natal")
	if rr.Code != 200 {
		t.Fatalf("Esperado 200, recebido %d", rr.Code)
	}
	var res map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("Body inválido: %v", err)
	}
	if res["id"] != "2" {
		t.Errorf("Esperado id 2, recebido %v", res["id"])
	}
}

func TestNewHandler_MissingCollection(t *testing.T) {
	rr := executeRequest(NewHandler(RouteConfig{Collection: "orders"}, usersQuerier()), "GET", "/users/list")
	if rr.Code != 404 {
		t.Errorf("Esperado 404, recebido %d", rr.Code)
	}
}

func TestNewHandler_DelayHonorsCancellation(t *testing.T) {
	route := RouteConfig{Delay: "1h", Response: &Response{Status: 200}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", "/users/list", nil)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		NewHandler(route, nil).ServeHTTP(rr, req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler deveria retornar ao cancelar o contexto")
	}
}
