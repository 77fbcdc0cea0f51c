package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/rentals-web/internal/application/api"
	"github.com/jhoicas/rentals-web/internal/application/ports"
	"github.com/jhoicas/rentals-web/internal/application/usecase"
	"github.com/jhoicas/rentals-web/internal/infrastructure/identity"
)

// ClientFactory construye un cliente del backend (con su propia caché) para una sesión.
type ClientFactory func(session ports.IdentitySession) *api.Client

// Scope cliente y casos de uso de un id token del BFF. La caché no se comparte entre tokens.
type Scope struct {
	UserID   string
	Client   *api.Client
	Users    *usecase.UserUseCase
	Listings *usecase.ListingsUseCase
	Tenants  *usecase.TenantUseCase
	Managers *usecase.ManagerUseCase
	Leases   *usecase.LeaseUseCase

	lastSeen time.Time
}

// ClientRegistry mantiene un Scope por id token presentado. El token no se verifica en el
// BFF: sólo comparten caché las peticiones que traen exactamente el mismo token.
type ClientRegistry struct {
	mu        sync.Mutex
	scopes    map[string]*Scope
	factory   ClientFactory
	idleAfter time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewClientRegistry construye el registro. Un Scope sin peticiones durante idleAfter
// y con la caché vacía se descarta en Collect.
func NewClientRegistry(factory ClientFactory, idleAfter time.Duration, log zerolog.Logger) *ClientRegistry {
	return &ClientRegistry{
		scopes:    make(map[string]*Scope),
		factory:   factory,
		idleAfter: idleAfter,
		now:       time.Now,
		log:       log,
	}
}

// Scope devuelve el Scope asociado al id token crudo, creándolo si no existe.
func (r *ClientRegistry) Scope(userID, idToken string) *Scope {
	key := tokenKey(idToken)

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.scopes[key]
	if !ok {
		client := r.factory(identity.NewStaticSession(idToken))
		s = &Scope{
			UserID:   userID,
			Client:   client,
			Users:    usecase.NewUserUseCase(client),
			Listings: usecase.NewListingsUseCase(client),
			Tenants:  usecase.NewTenantUseCase(client),
			Managers: usecase.NewManagerUseCase(client),
			Leases:   usecase.NewLeaseUseCase(client),
		}
		r.scopes[key] = s
		r.log.Debug().Str("user_id", userID).Msg("scope creado")
	}
	s.lastSeen = r.now()
	return s
}

func tokenKey(idToken string) string {
	sum := sha256.Sum256([]byte(idToken))
	return hex.EncodeToString(sum[:])
}

// Len cantidad de Scope vivos.
func (r *ClientRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scopes)
}

// Collect recolecta la caché de cada usuario y descarta los Scope inactivos.
func (r *ClientRegistry) Collect() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	dropped := 0
	for key, s := range r.scopes {
		store := s.Client.Store()
		store.Collect()
		if store.Len() == 0 && now.Sub(s.lastSeen) >= r.idleAfter {
			delete(r.scopes, key)
			dropped++
		}
	}
	if dropped > 0 {
		r.log.Debug().Int("dropped", dropped).Msg("scopes inactivos descartados")
	}
	return dropped
}

// Run ejecuta Collect periódicamente hasta que ctx termine.
func (r *ClientRegistry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Collect()
		}
	}
}
