package querycache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultKeepUnusedFor tiempo que una entrada sin suscriptores sigue en caché.
const DefaultKeepUnusedFor = 60 * time.Second

// ErrUnsubscribed la suscripción ya fue cancelada.
var ErrUnsubscribed = errors.New("querycache: suscripción cancelada")

// Status estado de una entrada: Idle → Fetching → {Cached | Errored}.
type Status int

const (
	StatusIdle Status = iota
	StatusFetching
	StatusCached
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusFetching:
		return "fetching"
	case StatusCached:
		return "cached"
	case StatusErrored:
		return "errored"
	default:
		return "idle"
	}
}

// Fetcher ejecuta la petición de red de una consulta.
type Fetcher func(ctx context.Context) (any, error)

// TagsFunc calcula los tags que provee un resultado (o un error).
type TagsFunc func(result any, err error) []Tag

// Snapshot vista de solo lectura de una entrada.
type Snapshot struct {
	Key         Key
	Status      Status
	Data        any
	Err         error
	Stale       bool
	Tags        []Tag
	Subscribers int
	FetchedAt   time.Time
}

// Options configuración del Store.
type Options struct {
	KeepUnusedFor time.Duration
	Logger        zerolog.Logger
	Now           func() time.Time
}

// Store caché de consultas inyectable: entradas por clave, índice invertido de tags,
// deduplicación de peticiones en vuelo y recolección por conteo de suscriptores.
type Store struct {
	mu         sync.Mutex
	entries    map[Key]*entry
	index      tagIndex
	queries    singleflight.Group
	keepUnused time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

type entry struct {
	key      Key
	fetch    Fetcher
	provides TagsFunc

	status    Status
	data      any
	hasData   bool
	err       error
	stale     bool
	tags      []Tag
	fetchedAt time.Time

	subs        map[*Subscription]struct{}
	unusedSince time.Time

	gen            uint64
	done           chan struct{}
	cancel         context.CancelFunc
	abandoned      bool
	refetchPending bool
}

// New construye un Store vacío.
func New(opts Options) *Store {
	keep := opts.KeepUnusedFor
	if keep <= 0 {
		keep = DefaultKeepUnusedFor
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		entries:    make(map[Key]*entry),
		index:      make(tagIndex),
		keepUnused: keep,
		now:        now,
		log:        opts.Logger,
	}
}

// Subscribe registra interés en key. Si la entrada no tiene datos vigentes se lanza
// la petición; suscriptores concurrentes de la misma clave comparten una sola llamada.
func (s *Store) Subscribe(key Key, fetch Fetcher, provides TagsFunc) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{key: key, fetch: fetch, provides: provides, subs: make(map[*Subscription]struct{})}
		s.entries[key] = e
	}
	sub := &Subscription{store: s, e: e, changes: make(chan struct{}, 1)}
	e.subs[sub] = struct{}{}
	e.unusedSince = time.Time{}

	switch {
	case e.status == StatusFetching && e.abandoned:
		// el fetch anterior ya fue cancelado; se reemplaza
		e.abandoned = false
		s.queries.Forget(string(key))
		s.startFetchLocked(e)
	case e.status == StatusIdle, e.status == StatusErrored, e.status == StatusCached && e.stale:
		s.startFetchLocked(e)
	}
	return sub
}

// Query suscribe, espera el resultado y libera la suscripción (la entrada queda en
// caché hasta que venza KeepUnusedFor).
func (s *Store) Query(ctx context.Context, key Key, fetch Fetcher, provides TagsFunc) (any, error) {
	sub := s.Subscribe(key, fetch, provides)
	defer sub.Unsubscribe()
	return sub.Wait(ctx)
}

// Mutate ejecuta una escritura y, si tiene éxito, invalida los tags que declare.
// Cada llamada emite su propia petición con el ctx de quien la hace.
func (s *Store) Mutate(ctx context.Context, operation string, run Fetcher, invalidates func(result any) []Tag) (any, error) {
	res, err := run(ctx)
	if err != nil {
		s.log.Debug().Str("operation", operation).Err(err).Msg("mutation failed")
		return nil, err
	}
	if invalidates != nil {
		s.Invalidate(invalidates(res)...)
	}
	return res, nil
}

// Invalidate marca como obsoletas las entradas que proveen alguno de los tags.
// Las que tienen suscriptores activos se vuelven a pedir de inmediato; el resto
// se pide en la próxima suscripción. Devuelve cuántas entradas se alcanzaron.
func (s *Store) Invalidate(tags ...Tag) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.index.match(tags)
	for k := range keys {
		e := s.entries[k]
		if e == nil {
			continue
		}
		if e.status == StatusFetching {
			// la respuesta en vuelo puede ser anterior a la escritura
			e.refetchPending = true
			continue
		}
		e.stale = true
		if len(e.subs) > 0 {
			s.startFetchLocked(e)
		}
		s.notifyLocked(e)
	}
	if len(keys) > 0 {
		s.log.Debug().Strs("tags", tagStrings(tags)).Int("entries", len(keys)).Msg("cache invalidated")
	}
	return len(keys)
}

// Get devuelve la instantánea de una entrada.
func (s *Store) Get(key Key) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Snapshot{}, false
	}
	return e.snapshot(), true
}

// Len número de entradas en caché.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Collect elimina las entradas sin suscriptores desde hace más de KeepUnusedFor.
func (s *Store) Collect() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.entries {
		if len(e.subs) > 0 || e.status == StatusFetching || e.unusedSince.IsZero() {
			continue
		}
		if now.Sub(e.unusedSince) < s.keepUnused {
			continue
		}
		for _, t := range e.tags {
			s.index.remove(t, k)
		}
		delete(s.entries, k)
		removed++
	}
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("cache collected")
	}
	return removed
}

func (s *Store) startFetchLocked(e *entry) {
	ctx, cancel := context.WithCancel(context.Background())
	e.gen++
	gen := e.gen
	done := make(chan struct{})
	e.status = StatusFetching
	e.done = done
	e.cancel = cancel
	e.refetchPending = false

	fetch := e.fetch
	ch := s.queries.DoChan(string(e.key), func() (any, error) {
		return fetch(ctx)
	})
	s.log.Debug().Str("key", string(e.key)).Msg("cache fetch")
	go s.settle(e, gen, ch, cancel, done)
}

func (s *Store) settle(e *entry, gen uint64, ch <-chan singleflight.Result, cancel context.CancelFunc, done chan struct{}) {
	res := <-ch
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(done)

	if e.gen != gen {
		return
	}
	e.cancel = nil

	switch {
	case res.Err != nil && e.abandoned && errors.Is(res.Err, context.Canceled):
		e.status = StatusIdle
		if e.hasData {
			e.status = StatusCached
			e.stale = true
		}
	case res.Err != nil:
		e.status = StatusErrored
		e.err = res.Err
		s.retagLocked(e, e.tagsFor(nil, res.Err))
	default:
		e.status = StatusCached
		e.data = res.Val
		e.hasData = true
		e.err = nil
		e.stale = false
		e.fetchedAt = s.now()
		s.retagLocked(e, e.tagsFor(res.Val, nil))
	}
	e.abandoned = false

	if e.refetchPending {
		e.refetchPending = false
		if e.status == StatusCached {
			e.stale = true
		}
		if len(e.subs) > 0 {
			s.startFetchLocked(e)
		}
	}
	s.notifyLocked(e)
}

// retagLocked reemplaza los tags de la entrada en el índice invertido.
func (s *Store) retagLocked(e *entry, tags []Tag) {
	for _, t := range e.tags {
		s.index.remove(t, e.key)
	}
	e.tags = uniqueTags(tags)
	for _, t := range e.tags {
		s.index.add(t, e.key)
	}
}

func (s *Store) notifyLocked(e *entry) {
	for sub := range e.subs {
		select {
		case sub.changes <- struct{}{}:
		default:
		}
	}
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.closed {
		return
	}
	sub.closed = true
	e := sub.e
	delete(e.subs, sub)
	if len(e.subs) > 0 {
		return
	}
	e.unusedSince = s.now()
	if e.status == StatusFetching && e.cancel != nil {
		e.abandoned = true
		e.cancel()
	}
}

func (e *entry) tagsFor(result any, err error) []Tag {
	if e.provides == nil {
		return nil
	}
	return e.provides(result, err)
}

func (e *entry) snapshot() Snapshot {
	tags := make([]Tag, len(e.tags))
	copy(tags, e.tags)
	return Snapshot{
		Key:         e.key,
		Status:      e.status,
		Data:        e.data,
		Err:         e.err,
		Stale:       e.stale,
		Tags:        tags,
		Subscribers: len(e.subs),
		FetchedAt:   e.fetchedAt,
	}
}

func tagStrings(tags []Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}
