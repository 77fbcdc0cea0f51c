package querycache

import "context"

// Subscription interés de un consumidor en una entrada de caché. Cancelarla no aborta
// la petición mientras queden otros suscriptores; al irse el último, sí.
type Subscription struct {
	store   *Store
	e       *entry
	changes chan struct{}
	closed  bool
}

// Key clave de la entrada suscrita.
func (sub *Subscription) Key() Key { return sub.e.key }

// Changes avisa (sin bloquear, coalescente) cuando la entrada cambia de estado.
func (sub *Subscription) Changes() <-chan struct{} { return sub.changes }

// Snapshot estado actual de la entrada.
func (sub *Subscription) Snapshot() Snapshot {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	return sub.e.snapshot()
}

// Wait espera a que la entrada salga de Fetching y devuelve datos o error.
// En error se devuelven también los últimos datos válidos, si los hay.
func (sub *Subscription) Wait(ctx context.Context) (any, error) {
	for {
		sub.store.mu.Lock()
		if sub.closed {
			sub.store.mu.Unlock()
			return nil, ErrUnsubscribed
		}
		e := sub.e
		if e.status != StatusFetching {
			data, err := e.data, e.err
			if e.status == StatusCached {
				err = nil
			}
			sub.store.mu.Unlock()
			return data, err
		}
		done := e.done
		sub.store.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Refetch fuerza una nueva petición salvo que ya haya una en vuelo.
func (sub *Subscription) Refetch() {
	s := sub.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.closed || sub.e.status == StatusFetching {
		return
	}
	sub.e.stale = true
	s.startFetchLocked(sub.e)
}

// Unsubscribe libera el interés en la entrada. Es idempotente.
func (sub *Subscription) Unsubscribe() {
	sub.store.unsubscribe(sub)
}
