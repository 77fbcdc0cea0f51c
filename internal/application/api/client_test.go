package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentals-web/internal/application/api"
	"github.com/jhoicas/rentals-web/internal/application/dto"
	"github.com/jhoicas/rentals-web/internal/domain"
	"github.com/jhoicas/rentals-web/internal/domain/entity"
	"github.com/jhoicas/rentals-web/internal/infrastructure/identity"
	"github.com/jhoicas/rentals-web/internal/infrastructure/rest"
	"github.com/jhoicas/rentals-web/internal/querycache"
	pkgjwt "github.com/jhoicas/rentals-web/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Backend falso
// ──────────────────────────────────────────────────────────────────────────────

type fakeBackend struct {
	mu        sync.Mutex
	calls     map[string]int
	queries   []string
	favorites map[int64]bool
	tenantOK  bool
	fail      map[string]int
	block     chan struct{}
	postGate  chan struct{}
	uploads   []string
	authz     []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:     make(map[string]int),
		favorites: make(map[int64]bool),
		tenantOK:  true,
		fail:      make(map[string]int),
	}
}

func (b *fakeBackend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *fakeBackend) tenantJSON() map[string]any {
	ids := make([]int, 0, len(b.favorites))
	for id := range b.favorites {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	favs := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		favs = append(favs, map[string]any{"id": id, "name": fmt.Sprintf("casa %d", id)})
	}
	return map[string]any{"id": 11, "cognitoId": "u1", "name": "ana", "email": "ana@x.co", "favorites": favs}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.calls[key]++
	b.authz = append(b.authz, r.Header.Get("Authorization"))
	if r.URL.Path == "/properties" && r.Method == http.MethodGet {
		b.queries = append(b.queries, r.URL.RawQuery)
	}
	status := b.fail[key]
	block := b.block
	postGate := b.postGate
	b.mu.Unlock()

	if block != nil && key == "GET /properties/5" {
		<-block
	}
	if key == "POST /properties" {
		b.recordUploads(r)
		if postGate != nil {
			<-postGate
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"falla simulada"}`))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	var body any
	switch {
	case key == "GET /tenants/u1":
		if !b.tenantOK {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Tenant not found"}`))
			return
		}
		body = b.tenantJSON()
	case key == "POST /tenants":
		b.tenantOK = true
		w.WriteHeader(http.StatusCreated)
		body = b.tenantJSON()
	case strings.HasPrefix(key, "POST /tenants/u1/favorites/"):
		var id int64
		_, _ = fmt.Sscanf(strings.TrimPrefix(key, "POST /tenants/u1/favorites/"), "%d", &id)
		b.favorites[id] = true
		body = b.tenantJSON()
	case strings.HasPrefix(key, "DELETE /tenants/u1/favorites/"):
		var id int64
		_, _ = fmt.Sscanf(strings.TrimPrefix(key, "DELETE /tenants/u1/favorites/"), "%d", &id)
		delete(b.favorites, id)
		body = b.tenantJSON()
	case key == "GET /properties":
		body = []map[string]any{{"id": 5, "name": "casa 5"}, {"id": 6, "name": "casa 6"}}
	case key == "GET /properties/5", key == "GET /properties/6":
		var id int
		_, _ = fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/properties/"), "%d", &id)
		body = map[string]any{"id": id, "name": fmt.Sprintf("casa %d", id)}
	case key == "GET /managers/m1/properties":
		body = []map[string]any{{"id": 8, "name": "finca"}}
	case key == "POST /properties":
		w.WriteHeader(http.StatusCreated)
		body = map[string]any{"id": 9, "name": "nueva", "manager": map[string]any{"id": 3, "cognitoId": "m1"}}
	case key == "GET /leases", key == "GET /properties/5/leases":
		body = []map[string]any{{"id": 1, "rent": "1200.50", "propertyId": 5}}
	case key == "GET /leases/1/payments":
		body = []map[string]any{{"id": 1, "amountDue": "1200.50", "amountPaid": "200", "leaseId": 1}}
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"ruta desconocida"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (b *fakeBackend) recordUploads(r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, fh := range r.MultipartForm.File["photos"] {
		f, err := fh.Open()
		if err != nil {
			continue
		}
		raw, _ := io.ReadAll(f)
		_ = f.Close()
		b.uploads = append(b.uploads, string(raw))
	}
}

func newClient(t *testing.T, b *fakeBackend) *api.Client {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	token, err := pkgjwt.GenerateIDToken("secret", "u1", "ana", "ana@x.co", entity.RoleTenant, 60)
	require.NoError(t, err)

	rq := rest.NewBaseQuery(srv.URL, 0, identity.NewStaticSession(token), zerolog.Nop())
	store := querycache.New(querycache.Options{Logger: zerolog.Nop()})
	return api.New(rq, store, zerolog.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestGetAuthUser_AprovisionaEn404(t *testing.T) {
	b := newFakeBackend()
	b.tenantOK = false
	c := newClient(t, b)

	user, err := c.GetAuthUser.Query(context.Background(), api.NoArg{})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleTenant, user.UserRole)
	assert.Equal(t, "u1", user.CognitoInfo.UserID)
	assert.Equal(t, int64(11), user.UserInfo.ID)
	assert.Equal(t, 1, b.count("POST /tenants"))

	_, err = c.GetAuthUser.Query(context.Background(), api.NoArg{})
	require.NoError(t, err)
	assert.Equal(t, 1, b.count("GET /tenants/u1"), "el usuario queda en caché")
	assert.Equal(t, 1, b.count("POST /tenants"))
}

func TestGetAuthUser_SinSesion(t *testing.T) {
	b := newFakeBackend()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	rq := rest.NewBaseQuery(srv.URL, 0, identity.NewStaticSession(""), zerolog.Nop())
	c := api.New(rq, querycache.New(querycache.Options{}), zerolog.Nop())

	_, err := c.GetAuthUser.Query(context.Background(), api.NoArg{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthSession)
	assert.Equal(t, 0, b.count("GET /tenants/u1"))
}

func TestRequest_AdjuntaBearer(t *testing.T) {
	b := newFakeBackend()
	c := newClient(t, b)

	_, err := c.GetProperty.Query(context.Background(), 5)
	require.NoError(t, err)
	b.mu.Lock()
	defer b.mu.Unlock()
	require.Len(t, b.authz, 1)
	assert.True(t, strings.HasPrefix(b.authz[0], "Bearer ey"))
}

func TestGetProperties_FiltrosLimpios(t *testing.T) {
	b := newFakeBackend()
	c := newClient(t, b)

	priceMin := 1000.0
	f := dto.DefaultFilters()
	f.Location = "Bogotá"
	f.Beds = "2"
	f.PriceRange = [2]*float64{&priceMin, nil}
	f.Amenities = []string{"Pool", "Gym"}
	f.Coordinates = &[2]float64{-74.08, 4.6}

	props, err := c.GetProperties.Query(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, props, 2)

	b.mu.Lock()
	defer b.mu.Unlock()
	require.Len(t, b.queries, 1)
	assert.Equal(t,
		"amenities=Pool%2CGym&beds=2&latitude=4.6&location=Bogot%C3%A1&longitude=-74.08&priceMin=1000",
		b.queries[0])
}

func TestAddFavorite_InvalidaTenantYLista(t *testing.T) {
	b := newFakeBackend()
	c := newClient(t, b)
	ctx := context.Background()

	_, err := c.GetTenant.Query(ctx, "u1")
	require.NoError(t, err)
	_, err = c.GetProperties.Query(ctx, dto.DefaultFilters())
	require.NoError(t, err)
	_, err = c.GetProperty.Query(ctx, 5)
	require.NoError(t, err)

	tenant, err := c.AddFavoriteProperty.Do(ctx, dto.FavoriteRequest{CognitoID: "u1", PropertyID: 5})
	require.NoError(t, err)
	assert.True(t, tenant.HasFavorite(5))

	snap, ok := c.Store().Get(c.GetTenant.Key("u1"))
	require.True(t, ok)
	assert.True(t, snap.Stale, "getTenant queda obsoleto")
	snap, _ = c.Store().Get(c.GetProperties.Key(dto.DefaultFilters()))
	assert.True(t, snap.Stale, "la lista queda obsoleta")
	snap, _ = c.Store().Get(c.GetProperty.Key(5))
	assert.False(t, snap.Stale, "el detalle no depende de favoritos")

	fresh, err := c.GetTenant.Query(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, fresh.HasFavorite(5))
	assert.Equal(t, 2, b.count("GET /tenants/u1"))

	_, err = c.GetProperty.Query(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, b.count("GET /properties/5"))
}

func TestAddFavorite_Idempotente(t *testing.T) {
	b := newFakeBackend()
	c := newClient(t, b)
	ctx := context.Background()
	req := dto.FavoriteRequest{CognitoID: "u1", PropertyID: 5}

	_, err := c.AddFavoriteProperty.Do(ctx, req)
	require.NoError(t, err)
	tenant, err := c.AddFavoriteProperty.Do(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, tenant.FavoriteIDs())

	tenant, err = c.RemoveFavoriteProperty.Do(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, tenant.FavoriteIDs())
}

func TestMutacionFallida_NoInvalida(t *testing.T) {
	b := newFakeBackend()
	b.fail["POST /tenants/u1/favorites/5"] = http.StatusBadRequest
	c := newClient(t, b)
	ctx := context.Background()

	_, err := c.GetTenant.Query(ctx, "u1")
	require.NoError(t, err)

	_, err = c.AddFavoriteProperty.Do(ctx, dto.FavoriteRequest{CognitoID: "u1", PropertyID: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	snap, _ := c.Store().Get(c.GetTenant.Key("u1"))
	assert.False(t, snap.Stale)
}

func TestGetProperty_AislamientoDeTags(t *testing.T) {
	b := newFakeBackend()
	c := newClient(t, b)
	ctx := context.Background()

	_, err := c.GetProperty.Query(ctx, 5)
	require.NoError(t, err)
	_, err = c.GetProperty.Query(ctx, 6)
	require.NoError(t, err)

	n := c.Store().Invalidate(querycache.TagOf(api.TagPropertyDetails, 5))
	assert.Equal(t, 1, n)

	_, _ = c.GetProperty.Query(ctx, 5)
	_, _ = c.GetProperty.Query(ctx, 6)
	assert.Equal(t, 2, b.count("GET /properties/5"))
	assert.Equal(t, 1, b.count("GET /properties/6"))
}

func TestGetProperty_DeduplicaConcurrentes(t *testing.T) {
	b := newFakeBackend()
	b.block = make(chan struct{})
	c := newClient(t, b)

	const n = 8
	var wg sync.WaitGroup
	results := make([]*entity.Property, n)
	errs := make([]error, n)
	watches := make([]*api.Watch[*entity.Property], n)
	for i := 0; i < n; i++ {
		watches[i] = c.GetProperty.Subscribe(5)
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = watches[i].Result(context.Background())
		}(i)
	}
	require.Eventually(t, func() bool { return b.count("GET /properties/5") == 1 }, time.Second, 5*time.Millisecond)
	close(b.block)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(5), results[i].ID)
		watches[i].Unsubscribe()
	}
	assert.Equal(t, 1, b.count("GET /properties/5"))
}

func TestGetProperty_ErrorNoSeCachea(t *testing.T) {
	b := newFakeBackend()
	b.fail["GET /properties/5"] = http.StatusInternalServerError
	c := newClient(t, b)
	ctx := context.Background()

	_, err := c.GetProperty.Query(ctx, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServer)
	apiErr, ok := domain.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	b.mu.Lock()
	delete(b.fail, "GET /properties/5")
	b.mu.Unlock()

	p, err := c.GetProperty.Query(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "casa 5", p.Name)
	assert.Equal(t, 2, b.count("GET /properties/5"))
}

func TestGetProperty_NoEncontrado(t *testing.T) {
	b := newFakeBackend()
	c := newClient(t, b)

	_, err := c.GetProperty.Query(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateProperty_InvalidaListasDelManager(t *testing.T) {
	b := newFakeBackend()
	c := newClient(t, b)
	ctx := context.Background()

	_, err := c.GetManagerProperties.Query(ctx, "m1")
	require.NoError(t, err)

	created, err := c.CreateProperty.Do(ctx, dto.CreatePropertyRequest{
		Name:             "nueva",
		ManagerCognitoID: "m1",
		Photos:           []dto.PhotoUpload{{Filename: "a.jpg", ContentType: "image/jpeg", Content: []byte("jpg")}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)

	_, err = c.GetManagerProperties.Query(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, b.count("GET /managers/m1/properties"))
}

func TestCreateProperty_EscriturasConcurrentesNoSeColapsan(t *testing.T) {
	b := newFakeBackend()
	b.postGate = make(chan struct{})
	c := newClient(t, b)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, content := range []string{"foto-A", "foto-B"} {
		wg.Add(1)
		go func(i int, content string) {
			defer wg.Done()
			_, errs[i] = c.CreateProperty.Do(context.Background(), dto.CreatePropertyRequest{
				Name:             "casa",
				ManagerCognitoID: "m1",
				Photos:           []dto.PhotoUpload{{Filename: "a.jpg", ContentType: "image/jpeg", Content: []byte(content)}},
			})
		}(i, content)
	}

	assert.Eventually(t, func() bool { return b.count("POST /properties") == 2 }, 2*time.Second, 10*time.Millisecond,
		"cada alta debe emitir su propio POST aunque los campos coincidan")
	close(b.postGate)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	b.mu.Lock()
	defer b.mu.Unlock()
	assert.ElementsMatch(t, []string{"foto-A", "foto-B"}, b.uploads)
}

func TestCreateProperty_CancelarUnaEscrituraNoAfectaALaOtra(t *testing.T) {
	b := newFakeBackend()
	b.postGate = make(chan struct{})
	c := newClient(t, b)
	req := dto.CreatePropertyRequest{Name: "casa", ManagerCognitoID: "m1"}

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.CreateProperty.Do(ctx, req)
		first <- err
	}()
	second := make(chan error, 1)
	go func() {
		_, err := c.CreateProperty.Do(context.Background(), req)
		second <- err
	}()

	assert.Eventually(t, func() bool { return b.count("POST /properties") == 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	assert.Error(t, <-first)
	close(b.postGate)
	assert.NoError(t, <-second)
}

func TestLeases_TagColectivo(t *testing.T) {
	b := newFakeBackend()
	c := newClient(t, b)
	ctx := context.Background()

	leases, err := c.GetLeases.Query(ctx, api.NoArg{})
	require.NoError(t, err)
	require.Len(t, leases, 1)
	assert.Equal(t, "1200.5", leases[0].Rent.String())
	_, err = c.GetPropertyLeases.Query(ctx, 5)
	require.NoError(t, err)
	payments, err := c.GetPayments.Query(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "1000.5", payments[0].Balance().String())

	assert.Equal(t, 2, c.Store().Invalidate(querycache.TypeTag(api.TagLeases)))
	snap, _ := c.Store().Get(c.GetPayments.Key(1))
	assert.False(t, snap.Stale)
}

func TestWatch_RefrescaTrasInvalidacion(t *testing.T) {
	b := newFakeBackend()
	c := newClient(t, b)
	ctx := context.Background()

	w := c.GetTenant.Subscribe("u1")
	defer w.Unsubscribe()
	tenant, err := w.Result(ctx)
	require.NoError(t, err)
	assert.Empty(t, tenant.FavoriteIDs())

	_, err = c.AddFavoriteProperty.Do(ctx, dto.FavoriteRequest{CognitoID: "u1", PropertyID: 6})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return b.count("GET /tenants/u1") == 2 && w.Status() == querycache.StatusCached
	}, time.Second, 5*time.Millisecond)
	tenant, err = w.Result(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{6}, tenant.FavoriteIDs())
}
