package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jhoicas/rentals-web/internal/application/dto"
	"github.com/jhoicas/rentals-web/internal/application/ports"
	"github.com/jhoicas/rentals-web/internal/application/provisioning"
	"github.com/jhoicas/rentals-web/internal/domain"
	"github.com/jhoicas/rentals-web/internal/domain/entity"
	"github.com/jhoicas/rentals-web/internal/querycache"
	"github.com/jhoicas/rentals-web/pkg/params"
)

// NoArg argumento de las consultas sin parámetros.
type NoArg struct{}

// Client registro de endpoints del backend con su grafo de tags.
// Todas las lecturas y escrituras pasan por el mismo Store.
type Client struct {
	GetAuthUser           *QueryEndpoint[NoArg, *entity.User]
	UpdateManagerSettings *MutationEndpoint[dto.UpdateSettingsRequest, *entity.Manager]

	GetProperties *QueryEndpoint[dto.PropertyFilters, []entity.Property]
	GetProperty   *QueryEndpoint[int64, *entity.Property]

	GetTenant              *QueryEndpoint[string, *entity.Tenant]
	GetCurrentResidences   *QueryEndpoint[string, []entity.Property]
	UpdateTenantSettings   *MutationEndpoint[dto.UpdateSettingsRequest, *entity.Tenant]
	AddFavoriteProperty    *MutationEndpoint[dto.FavoriteRequest, *entity.Tenant]
	RemoveFavoriteProperty *MutationEndpoint[dto.FavoriteRequest, *entity.Tenant]

	GetManagerProperties *QueryEndpoint[string, []entity.Property]
	CreateProperty       *MutationEndpoint[dto.CreatePropertyRequest, *entity.Property]

	GetLeases         *QueryEndpoint[NoArg, []entity.Lease]
	GetPropertyLeases *QueryEndpoint[int64, []entity.Lease]
	GetPayments       *QueryEndpoint[int64, []entity.Payment]

	store       *querycache.Store
	requester   ports.Requester
	provisioner *provisioning.Helper
	log         zerolog.Logger
}

// New construye el cliente sobre requester y store.
func New(requester ports.Requester, store *querycache.Store, log zerolog.Logger) *Client {
	c := &Client{
		store:       store,
		requester:   requester,
		provisioner: provisioning.New(requester, log),
		log:         log,
	}

	c.GetAuthUser = &QueryEndpoint[NoArg, *entity.User]{
		name:  "getAuthUser",
		store: store,
		run: func(ctx context.Context, _ NoArg) (*entity.User, error) {
			return c.authUser(ctx)
		},
		provides: func(u *entity.User, err error, _ NoArg) []querycache.Tag {
			if err != nil || u == nil {
				return nil
			}
			return []querycache.Tag{profileTag(u.UserRole, u.UserInfo.ID)}
		},
	}
	c.UpdateManagerSettings = &MutationEndpoint[dto.UpdateSettingsRequest, *entity.Manager]{
		name:  "updateManagerSettings",
		store: store,
		run: func(ctx context.Context, req dto.UpdateSettingsRequest) (*entity.Manager, error) {
			var out entity.Manager
			if err := c.requester.Do(ctx, ports.Request{Method: http.MethodPut, Path: "managers/" + url.PathEscape(req.CognitoID), Body: req.Body()}, &out); err != nil {
				return nil, err
			}
			return &out, nil
		},
		invalidates: func(m *entity.Manager, _ dto.UpdateSettingsRequest) []querycache.Tag {
			return []querycache.Tag{querycache.TagOf(TagManagers, m.ID)}
		},
	}

	c.GetProperties = &QueryEndpoint[dto.PropertyFilters, []entity.Property]{
		name:  "getProperties",
		store: store,
		run: func(ctx context.Context, f dto.PropertyFilters) ([]entity.Property, error) {
			var out []entity.Property
			err := c.requester.Do(ctx, ports.Request{
				Method: http.MethodGet,
				Path:   "properties",
				Params: params.Values(params.Clean(f.Params())),
			}, &out)
			return out, err
		},
		provides: func(props []entity.Property, err error, _ dto.PropertyFilters) []querycache.Tag {
			return propertyTags(props, err)
		},
	}
	c.GetProperty = &QueryEndpoint[int64, *entity.Property]{
		name:  "getProperty",
		store: store,
		run: func(ctx context.Context, id int64) (*entity.Property, error) {
			var out entity.Property
			if err := c.requester.Do(ctx, ports.Get("properties/"+strconv.FormatInt(id, 10)), &out); err != nil {
				return nil, err
			}
			return &out, nil
		},
		provides: func(_ *entity.Property, _ error, id int64) []querycache.Tag {
			return []querycache.Tag{querycache.TagOf(TagPropertyDetails, id)}
		},
	}

	c.GetTenant = &QueryEndpoint[string, *entity.Tenant]{
		name:  "getTenant",
		store: store,
		run: func(ctx context.Context, cognitoID string) (*entity.Tenant, error) {
			var out entity.Tenant
			if err := c.requester.Do(ctx, ports.Get("tenants/"+url.PathEscape(cognitoID)), &out); err != nil {
				return nil, err
			}
			return &out, nil
		},
		provides: func(t *entity.Tenant, err error, _ string) []querycache.Tag {
			if err != nil || t == nil {
				return nil
			}
			return []querycache.Tag{querycache.TagOf(TagTenants, t.ID)}
		},
	}
	c.GetCurrentResidences = &QueryEndpoint[string, []entity.Property]{
		name:  "getCurrentResidences",
		store: store,
		run: func(ctx context.Context, cognitoID string) ([]entity.Property, error) {
			var out []entity.Property
			err := c.requester.Do(ctx, ports.Get("tenants/"+url.PathEscape(cognitoID)+"/current-residences"), &out)
			return out, err
		},
		provides: func(props []entity.Property, err error, _ string) []querycache.Tag {
			return propertyTags(props, err)
		},
	}
	c.UpdateTenantSettings = &MutationEndpoint[dto.UpdateSettingsRequest, *entity.Tenant]{
		name:  "updateTenantSettings",
		store: store,
		run: func(ctx context.Context, req dto.UpdateSettingsRequest) (*entity.Tenant, error) {
			var out entity.Tenant
			if err := c.requester.Do(ctx, ports.Request{Method: http.MethodPut, Path: "tenants/" + url.PathEscape(req.CognitoID), Body: req.Body()}, &out); err != nil {
				return nil, err
			}
			return &out, nil
		},
		invalidates: func(t *entity.Tenant, _ dto.UpdateSettingsRequest) []querycache.Tag {
			return []querycache.Tag{querycache.TagOf(TagTenants, t.ID)}
		},
	}
	c.AddFavoriteProperty = c.favoriteMutation("addFavoriteProperty", http.MethodPost)
	c.RemoveFavoriteProperty = c.favoriteMutation("removeFavoriteProperty", http.MethodDelete)

	c.GetManagerProperties = &QueryEndpoint[string, []entity.Property]{
		name:  "getManagerProperties",
		store: store,
		run: func(ctx context.Context, cognitoID string) ([]entity.Property, error) {
			var out []entity.Property
			err := c.requester.Do(ctx, ports.Get("managers/"+url.PathEscape(cognitoID)+"/properties"), &out)
			return out, err
		},
		provides: func(props []entity.Property, err error, _ string) []querycache.Tag {
			return propertyTags(props, err)
		},
	}
	c.CreateProperty = &MutationEndpoint[dto.CreatePropertyRequest, *entity.Property]{
		name:  "createProperty",
		store: store,
		run: func(ctx context.Context, req dto.CreatePropertyRequest) (*entity.Property, error) {
			form, err := req.Multipart()
			if err != nil {
				return nil, &domain.APIError{Kind: domain.KindValidation, Method: http.MethodPost, Path: "/properties", Message: "formulario inválido", Err: err}
			}
			var out entity.Property
			if err := c.requester.Do(ctx, ports.Request{Method: http.MethodPost, Path: "properties", Form: form}, &out); err != nil {
				return nil, err
			}
			return &out, nil
		},
		invalidates: func(p *entity.Property, _ dto.CreatePropertyRequest) []querycache.Tag {
			tags := []querycache.Tag{querycache.ListTag(TagProperties)}
			if p.Manager != nil {
				tags = append(tags, querycache.TagOf(TagManagers, p.Manager.ID))
			}
			return tags
		},
	}

	c.GetLeases = &QueryEndpoint[NoArg, []entity.Lease]{
		name:  "getLeases",
		store: store,
		run: func(ctx context.Context, _ NoArg) ([]entity.Lease, error) {
			var out []entity.Lease
			err := c.requester.Do(ctx, ports.Get("leases"), &out)
			return out, err
		},
		provides: func([]entity.Lease, error, NoArg) []querycache.Tag {
			return []querycache.Tag{querycache.TypeTag(TagLeases)}
		},
	}
	c.GetPropertyLeases = &QueryEndpoint[int64, []entity.Lease]{
		name:  "getPropertyLeases",
		store: store,
		run: func(ctx context.Context, propertyID int64) ([]entity.Lease, error) {
			var out []entity.Lease
			err := c.requester.Do(ctx, ports.Get("properties/"+strconv.FormatInt(propertyID, 10)+"/leases"), &out)
			return out, err
		},
		provides: func([]entity.Lease, error, int64) []querycache.Tag {
			return []querycache.Tag{querycache.TypeTag(TagLeases)}
		},
	}
	c.GetPayments = &QueryEndpoint[int64, []entity.Payment]{
		name:  "getPayments",
		store: store,
		run: func(ctx context.Context, leaseID int64) ([]entity.Payment, error) {
			var out []entity.Payment
			err := c.requester.Do(ctx, ports.Get("leases/"+strconv.FormatInt(leaseID, 10)+"/payments"), &out)
			return out, err
		},
		provides: func([]entity.Payment, error, int64) []querycache.Tag {
			return []querycache.Tag{querycache.TypeTag(TagPayments)}
		},
	}
	return c
}

// Store caché subyacente.
func (c *Client) Store() *querycache.Store { return c.store }

func (c *Client) favoriteMutation(name, method string) *MutationEndpoint[dto.FavoriteRequest, *entity.Tenant] {
	return &MutationEndpoint[dto.FavoriteRequest, *entity.Tenant]{
		name:  name,
		store: c.store,
		run: func(ctx context.Context, req dto.FavoriteRequest) (*entity.Tenant, error) {
			path := fmt.Sprintf("tenants/%s/favorites/%d", url.PathEscape(req.CognitoID), req.PropertyID)
			var out entity.Tenant
			if err := c.requester.Do(ctx, ports.Request{Method: method, Path: path}, &out); err != nil {
				return nil, err
			}
			return &out, nil
		},
		invalidates: func(t *entity.Tenant, _ dto.FavoriteRequest) []querycache.Tag {
			return []querycache.Tag{
				querycache.TagOf(TagTenants, t.ID),
				querycache.ListTag(TagProperties),
			}
		},
	}
}

// authUser resuelve la sesión y el perfil del backend, creándolo si no existe.
func (c *Client) authUser(ctx context.Context) (*entity.User, error) {
	info, role, err := c.requester.Session().CurrentUser(ctx)
	if err != nil {
		return nil, &domain.APIError{Kind: domain.KindAuthSession, Method: http.MethodGet, Path: "/auth/session", Message: "sesión no disponible", Err: err}
	}
	profile, err := c.provisioner.EnsureProfile(ctx, info, role)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		CognitoInfo: info,
		UserInfo:    *profile,
		UserRole:    role,
	}, nil
}
