package tripsapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotalabs/viagens-ui/internal/domain/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c, srv
}

func TestClient_ListForwardsBearerToken(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/viagens", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"origemNome":"Lisboa","destinoNome":"Porto","descricao":null,"modoTransporte":"comboio"}]`))
	})

	trips, err := c.List(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	require.Len(t, trips, 1)
	assert.Equal(t, model.TripID("1"), trips[0].ID)
	assert.Equal(t, "Lisboa", trips[0].Origin)
	assert.Nil(t, trips[0].Description)
}

func TestClient_ListNonArrayBodyYieldsEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"unexpected shape"}`))
	})

	trips, err := c.List(context.Background(), "tok")
	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
}

func TestClient_ListStatusErrorCarriesBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("acesso negado"))
	})

	_, err := c.List(context.Background(), "tok")
	require.Error(t, err)

	se, ok := AsStatusError(err)
	require.True(t, ok, "error should be a StatusError")
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Equal(t, "acesso negado", se.Body)
	assert.Equal(t, "HTTP 403: acesso negado", err.Error())
}

func TestClient_CreatePostsWireFields(t *testing.T) {
	var gotBody string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/viagens", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"t-9","origemNome":"Faro","destinoNome":"Braga","descricao":"ferias","modoTransporte":"carro"}`))
	})

	req := model.NewCreateTripRequest("Faro", "Braga", "ferias", "carro")
	trip, err := c.Create(context.Background(), "tok", req)
	require.NoError(t, err)

	assert.Contains(t, gotBody, `"origemNome":"Faro"`)
	assert.Contains(t, gotBody, `"destinoNome":"Braga"`)
	assert.Contains(t, gotBody, `"descricao":"ferias"`)
	assert.Contains(t, gotBody, `"modoTransporte":"carro"`)

	assert.Equal(t, model.TripID("t-9"), trip.ID)
	assert.Equal(t, "Faro", trip.Origin)
}

func TestClient_CreateUndecodableBodyEchoesRequest(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})

	trip, err := c.Create(context.Background(), "tok", model.NewCreateTripRequest("A", "B", "", "aviao"))
	require.NoError(t, err)
	assert.Equal(t, "A", trip.Origin)
	assert.Equal(t, "B", trip.Destination)
	assert.Empty(t, trip.ID)
}

func TestClient_DeleteTargetsTripPath(t *testing.T) {
	var gotPath, gotMethod string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.Delete(context.Background(), "tok", model.TripID("42"))
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/viagens/42", gotPath)
}

func TestClient_DeleteForbiddenSurfacesServerMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"apenas administradores"}`))
	})

	err := c.Delete(context.Background(), "tok", model.TripID("42"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "apenas administradores")
}

func TestClient_DeleteRequiresID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request should be made")
	})

	err := c.Delete(context.Background(), "tok", "")
	require.Error(t, err)
}
