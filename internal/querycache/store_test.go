package querycache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentals-web/internal/querycache"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeClock reloj manual para la política de recolección.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newStore(t *testing.T) (*querycache.Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return querycache.New(querycache.Options{
		KeepUnusedFor: time.Minute,
		Logger:        zerolog.Nop(),
		Now:           clock.Now,
	}), clock
}

// counter fetcher que cuenta llamadas y devuelve el número de la llamada.
type counter struct {
	calls atomic.Int32
}

func (c *counter) fetch(context.Context) (any, error) {
	return int(c.calls.Add(1)), nil
}

func tags(ts ...querycache.Tag) querycache.TagsFunc {
	return func(any, error) []querycache.Tag { return ts }
}

func waitStatus(t *testing.T, s *querycache.Store, key querycache.Key, want querycache.Status) querycache.Snapshot {
	t.Helper()
	var snap querycache.Snapshot
	require.Eventually(t, func() bool {
		snap, _ = s.Get(key)
		return snap.Status == want
	}, time.Second, 5*time.Millisecond, "la entrada %s debe llegar a %s", key, want)
	return snap
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestQuery_CacheaElResultado(t *testing.T) {
	s, _ := newStore(t)
	c := &counter{}
	key := querycache.KeyOf("getProperty", 5)

	v1, err := s.Query(context.Background(), key, c.fetch, tags(querycache.TagOf("PropertyDetails", 5)))
	require.NoError(t, err)
	v2, err := s.Query(context.Background(), key, c.fetch, tags(querycache.TagOf("PropertyDetails", 5)))
	require.NoError(t, err)

	assert.Equal(t, 1, v1)
	assert.Equal(t, 1, v2, "la segunda consulta sale de la caché")
	assert.Equal(t, int32(1), c.calls.Load())
}

func TestSubscribe_DeduplicaPeticionesEnVuelo(t *testing.T) {
	s, _ := newStore(t)
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "propiedad 5", nil
	}
	key := querycache.KeyOf("getProperty", 5)

	a := s.Subscribe(key, fetch, tags(querycache.TagOf("PropertyDetails", 5)))
	b := s.Subscribe(key, fetch, tags(querycache.TagOf("PropertyDetails", 5)))
	close(release)

	va, err := a.Wait(context.Background())
	require.NoError(t, err)
	vb, err := b.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "propiedad 5", va)
	assert.Equal(t, "propiedad 5", vb)
	assert.Equal(t, int32(1), calls.Load(), "dos suscriptores, una sola llamada de red")
}

func TestInvalidate_MarcaObsoletaYRefetchEnLaProximaSuscripcion(t *testing.T) {
	s, _ := newStore(t)
	c := &counter{}
	key := querycache.KeyOf("getProperties", map[string]any{"location": "NY"})
	provides := tags(querycache.TagOf("Properties", 1), querycache.ListTag("Properties"))

	_, err := s.Query(context.Background(), key, c.fetch, provides)
	require.NoError(t, err)

	n := s.Invalidate(querycache.ListTag("Properties"))
	assert.Equal(t, 1, n)

	snap, ok := s.Get(key)
	require.True(t, ok)
	assert.True(t, snap.Stale, "sin suscriptores la entrada queda obsoleta")
	assert.Equal(t, querycache.StatusCached, snap.Status)
	assert.Equal(t, int32(1), c.calls.Load(), "no se pide hasta la próxima suscripción")

	v, err := s.Query(context.Background(), key, c.fetch, provides)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestInvalidate_SuscriptorActivoRefetchInmediato(t *testing.T) {
	s, _ := newStore(t)
	c := &counter{}
	key := querycache.KeyOf("getTenant", "cog-1")

	sub := s.Subscribe(key, c.fetch, tags(querycache.TagOf("Tenants", 7)))
	defer sub.Unsubscribe()
	_, err := sub.Wait(context.Background())
	require.NoError(t, err)

	s.Invalidate(querycache.TagOf("Tenants", 7))

	require.Eventually(t, func() bool { return c.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	v, err := sub.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestInvalidate_AislamientoDeTags(t *testing.T) {
	s, _ := newStore(t)
	c5, c6 := &counter{}, &counter{}
	k5 := querycache.KeyOf("getProperty", 5)
	k6 := querycache.KeyOf("getProperty", 6)

	_, err := s.Query(context.Background(), k5, c5.fetch, tags(querycache.TagOf("PropertyDetails", 5)))
	require.NoError(t, err)
	_, err = s.Query(context.Background(), k6, c6.fetch, tags(querycache.TagOf("PropertyDetails", 6)))
	require.NoError(t, err)

	s.Invalidate(querycache.TagOf("PropertyDetails", 5))

	snap5, _ := s.Get(k5)
	snap6, _ := s.Get(k6)
	assert.True(t, snap5.Stale)
	assert.False(t, snap6.Stale, "PropertyDetails[6] no debe verse afectado")
}

func TestInvalidate_TagDeTipoAlcanzaATodos(t *testing.T) {
	s, _ := newStore(t)
	c := &counter{}
	k1 := querycache.KeyOf("getLeases", nil)
	k2 := querycache.KeyOf("getPropertyLeases", 3)

	_, _ = s.Query(context.Background(), k1, c.fetch, tags(querycache.TypeTag("Leases")))
	_, _ = s.Query(context.Background(), k2, c.fetch, tags(querycache.TypeTag("Leases")))

	assert.Equal(t, 2, s.Invalidate(querycache.TypeTag("Leases")))
	assert.Equal(t, 0, s.Invalidate(querycache.TypeTag("Payments")))
}

func TestInvalidate_DuranteFetchReprograma(t *testing.T) {
	s, _ := newStore(t)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) (any, error) {
		n := calls.Add(1)
		if n == 2 {
			close(started)
			<-release
		}
		return int(n), nil
	}
	key := querycache.KeyOf("getProperties", nil)

	sub := s.Subscribe(key, fetch, tags(querycache.ListTag("Properties")))
	defer sub.Unsubscribe()
	_, err := sub.Wait(context.Background())
	require.NoError(t, err)

	sub.Refetch()
	<-started
	// la respuesta en vuelo es anterior a la escritura
	s.Invalidate(querycache.ListTag("Properties"))
	close(release)

	v, err := sub.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, v, "una invalidación durante el fetch dispara otro al terminar")
	assert.Equal(t, int32(3), calls.Load())
}

func TestQuery_ErrorYReintentoEnNuevaSuscripcion(t *testing.T) {
	s, _ := newStore(t)
	var calls atomic.Int32
	fetch := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("backend caído")
		}
		return "ok", nil
	}
	key := querycache.KeyOf("getLeases", nil)

	_, err := s.Query(context.Background(), key, fetch, tags(querycache.TypeTag("Leases")))
	require.Error(t, err)
	snap, _ := s.Get(key)
	assert.Equal(t, querycache.StatusErrored, snap.Status)

	v, err := s.Query(context.Background(), key, fetch, tags(querycache.TypeTag("Leases")))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestUnsubscribe_UltimoSuscriptorCancelaElFetch(t *testing.T) {
	s, _ := newStore(t)
	cancelled := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	}
	key := querycache.KeyOf("getProperty", 9)

	a := s.Subscribe(key, fetch, tags(querycache.TagOf("PropertyDetails", 9)))
	b := s.Subscribe(key, fetch, tags(querycache.TagOf("PropertyDetails", 9)))

	a.Unsubscribe()
	select {
	case <-cancelled:
		t.Fatal("con un suscriptor restante el fetch no debe cancelarse")
	case <-time.After(20 * time.Millisecond):
	}

	b.Unsubscribe()
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("al irse el último suscriptor el fetch debe cancelarse")
	}

	snap := waitStatus(t, s, key, querycache.StatusIdle)
	assert.NoError(t, snap.Err, "la cancelación no deja la entrada en error")
}

func TestWait_ContextoCanceladoLiberaInteres(t *testing.T) {
	s, _ := newStore(t)
	fetch := func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Query(ctx, querycache.KeyOf("getTenant", "x"), fetch, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect_EliminaEntradasSinSuscriptores(t *testing.T) {
	s, clock := newStore(t)
	c := &counter{}
	unused := querycache.KeyOf("getProperty", 1)
	active := querycache.KeyOf("getProperty", 2)

	_, err := s.Query(context.Background(), unused, c.fetch, tags(querycache.TagOf("PropertyDetails", 1)))
	require.NoError(t, err)
	sub := s.Subscribe(active, c.fetch, tags(querycache.TagOf("PropertyDetails", 2)))
	defer sub.Unsubscribe()
	_, err = sub.Wait(context.Background())
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 0, s.Collect(), "aún no vence KeepUnusedFor")

	clock.Advance(31 * time.Second)
	assert.Equal(t, 1, s.Collect())
	_, ok := s.Get(unused)
	assert.False(t, ok)
	_, ok = s.Get(active)
	assert.True(t, ok, "una entrada con suscriptores nunca se recolecta")

	assert.Equal(t, 0, s.Invalidate(querycache.TagOf("PropertyDetails", 1)), "el índice también se limpia")
}

func TestMutate_InvalidaSoloTrasExito(t *testing.T) {
	s, _ := newStore(t)
	c := &counter{}
	key := querycache.KeyOf("getProperties", nil)
	_, err := s.Query(context.Background(), key, c.fetch, tags(querycache.ListTag("Properties")))
	require.NoError(t, err)

	invalidates := func(any) []querycache.Tag { return []querycache.Tag{querycache.ListTag("Properties")} }

	_, err = s.Mutate(context.Background(), "addFavorite(1)", func(context.Context) (any, error) {
		return nil, errors.New("400")
	}, invalidates)
	require.Error(t, err)
	snap, _ := s.Get(key)
	assert.False(t, snap.Stale, "una escritura fallida no invalida")

	_, err = s.Mutate(context.Background(), "addFavorite(1)", func(context.Context) (any, error) {
		return "tenant", nil
	}, invalidates)
	require.NoError(t, err)
	snap, _ = s.Get(key)
	assert.True(t, snap.Stale)
}

func TestChanges_NotificaAlResolver(t *testing.T) {
	s, _ := newStore(t)
	c := &counter{}
	sub := s.Subscribe(querycache.KeyOf("getTenant", "a"), c.fetch, nil)
	defer sub.Unsubscribe()

	select {
	case <-sub.Changes():
	case <-time.After(time.Second):
		t.Fatal("se esperaba notificación")
	}
	assert.Equal(t, querycache.StatusCached, sub.Snapshot().Status)
}

func TestKeyOf_SerializaParametros(t *testing.T) {
	assert.Equal(t, querycache.Key("getLeases()"), querycache.KeyOf("getLeases", nil))
	assert.Equal(t, querycache.Key("getProperty(5)"), querycache.KeyOf("getProperty", 5))
	assert.Equal(t,
		querycache.KeyOf("getProperties", map[string]any{"b": 1, "a": 2}),
		querycache.KeyOf("getProperties", map[string]any{"a": 2, "b": 1}),
		"el orden de las claves no cambia la clave de caché")
}
