package api

import (
	"context"

	"github.com/jhoicas/rentals-web/internal/querycache"
)

// QueryEndpoint lectura declarativa: cómo se pide y bajo qué tags se archiva.
type QueryEndpoint[A, T any] struct {
	name     string
	store    *querycache.Store
	run      func(ctx context.Context, arg A) (T, error)
	provides func(result T, err error, arg A) []querycache.Tag
}

// Name nombre de la operación.
func (q *QueryEndpoint[A, T]) Name() string { return q.name }

// Key clave de caché para arg.
func (q *QueryEndpoint[A, T]) Key(arg A) querycache.Key { return querycache.KeyOf(q.name, arg) }

// Query devuelve el resultado desde la caché o lo pide al backend.
func (q *QueryEndpoint[A, T]) Query(ctx context.Context, arg A) (T, error) {
	v, err := q.store.Query(ctx, q.Key(arg), q.fetcher(arg), q.tagsFunc(arg))
	out, _ := v.(T)
	return out, err
}

// Subscribe mantiene la entrada viva y actualizada mientras dure la suscripción.
func (q *QueryEndpoint[A, T]) Subscribe(arg A) *Watch[T] {
	return &Watch[T]{sub: q.store.Subscribe(q.Key(arg), q.fetcher(arg), q.tagsFunc(arg))}
}

func (q *QueryEndpoint[A, T]) fetcher(arg A) querycache.Fetcher {
	return func(ctx context.Context) (any, error) {
		return q.run(ctx, arg)
	}
}

func (q *QueryEndpoint[A, T]) tagsFunc(arg A) querycache.TagsFunc {
	if q.provides == nil {
		return nil
	}
	return func(result any, err error) []querycache.Tag {
		out, _ := result.(T)
		return q.provides(out, err, arg)
	}
}

// Watch suscripción tipada a una consulta.
type Watch[T any] struct {
	sub *querycache.Subscription
}

// Result espera el resultado vigente.
func (w *Watch[T]) Result(ctx context.Context) (T, error) {
	v, err := w.sub.Wait(ctx)
	out, _ := v.(T)
	return out, err
}

// Status estado actual de la entrada.
func (w *Watch[T]) Status() querycache.Status { return w.sub.Snapshot().Status }

// Changes avisa cuando la entrada cambia.
func (w *Watch[T]) Changes() <-chan struct{} { return w.sub.Changes() }

// Refetch fuerza una nueva petición.
func (w *Watch[T]) Refetch() { w.sub.Refetch() }

// Unsubscribe libera la suscripción.
func (w *Watch[T]) Unsubscribe() { w.sub.Unsubscribe() }

// MutationEndpoint escritura declarativa con los tags que invalida al tener éxito.
type MutationEndpoint[A, T any] struct {
	name        string
	store       *querycache.Store
	run         func(ctx context.Context, arg A) (T, error)
	invalidates func(result T, arg A) []querycache.Tag
}

// Name nombre de la operación.
func (m *MutationEndpoint[A, T]) Name() string { return m.name }

// Do ejecuta la escritura y aplica las invalidaciones.
func (m *MutationEndpoint[A, T]) Do(ctx context.Context, arg A) (T, error) {
	v, err := m.store.Mutate(ctx, m.name,
		func(ctx context.Context) (any, error) {
			return m.run(ctx, arg)
		},
		func(result any) []querycache.Tag {
			if m.invalidates == nil {
				return nil
			}
			out, _ := result.(T)
			return m.invalidates(out, arg)
		})
	out, _ := v.(T)
	return out, err
}
