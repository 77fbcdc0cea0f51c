package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/rentals-web/internal/application/api"
	"github.com/jhoicas/rentals-web/internal/application/dto"
	"github.com/jhoicas/rentals-web/internal/application/usecase"
	"github.com/jhoicas/rentals-web/internal/infrastructure/identity"
	"github.com/jhoicas/rentals-web/internal/infrastructure/rest"
	"github.com/jhoicas/rentals-web/internal/querycache"
	"github.com/jhoicas/rentals-web/pkg/config"
	"github.com/jhoicas/rentals-web/pkg/logger"
)

// newClient arma el cliente del backend con la configuración y el token de la sesión.
func newClient(cmd *cobra.Command) (*api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = cfg.Identity.IDToken
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: cmd.ErrOrStderr()})

	requester := rest.NewBaseQuery(cfg.API.BaseURL, cfg.API.Timeout, identity.NewStaticSession(token), log.Component("rest"))
	store := querycache.New(querycache.Options{KeepUnusedFor: cfg.Cache.KeepUnusedFor, Logger: log.Component("querycache")})
	return api.New(requester, store, log.Component("api")), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id inválido %q", raw)
	}
	return id, nil
}

func meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Muestra el usuario autenticado (crea el perfil si no existe)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			user, err := usecase.NewUserUseCase(client).Me(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
}

func propertiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "properties",
		Short: "Consulta de propiedades",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Busca propiedades con filtros",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := filtersFromFlags(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			uc := usecase.NewListingsUseCase(client)
			user, err := usecase.NewUserUseCase(client).Me(cmd.Context())
			if err != nil {
				return err
			}
			view, err := uc.List(cmd.Context(), user, filters, dto.ViewModeList)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
	list.Flags().String("location", "", "ubicación")
	list.Flags().String("beds", "any", "habitaciones")
	list.Flags().String("baths", "any", "baños")
	list.Flags().String("type", "any", "tipo de propiedad")
	list.Flags().StringSlice("amenities", nil, "amenidades")
	list.Flags().String("available-from", "any", "disponible desde")
	list.Flags().Float64("price-min", 0, "precio mínimo")
	list.Flags().Float64("price-max", 0, "precio máximo")
	list.Flags().Float64("sqft-min", 0, "área mínima")
	list.Flags().Float64("sqft-max", 0, "área máxima")
	list.Flags().Float64("lat", 0, "latitud")
	list.Flags().Float64("lng", 0, "longitud")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Detalle de una propiedad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			p, err := usecase.NewListingsUseCase(client).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}

	mine := &cobra.Command{
		Use:   "mine",
		Short: "Propiedades del manager autenticado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			user, err := usecase.NewUserUseCase(client).Me(cmd.Context())
			if err != nil {
				return err
			}
			view, err := usecase.NewManagerUseCase(client).Properties(cmd.Context(), user)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}

	cmd.AddCommand(list, get, mine)
	return cmd
}

// filtersFromFlags traduce los flags a filtros; los numéricos solo cuentan si se pasaron.
func filtersFromFlags(cmd *cobra.Command) (dto.PropertyFilters, error) {
	f := dto.DefaultFilters()
	flags := cmd.Flags()
	f.Location, _ = flags.GetString("location")
	f.Beds, _ = flags.GetString("beds")
	f.Baths, _ = flags.GetString("baths")
	f.PropertyType, _ = flags.GetString("type")
	f.AvailableFrom, _ = flags.GetString("available-from")
	f.Amenities, _ = flags.GetStringSlice("amenities")

	optional := func(name string) *float64 {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetFloat64(name)
		return &v
	}
	f.PriceRange = [2]*float64{optional("price-min"), optional("price-max")}
	f.SquareFeet = [2]*float64{optional("sqft-min"), optional("sqft-max")}

	lat, lng := optional("lat"), optional("lng")
	switch {
	case lat != nil && lng != nil:
		f.Coordinates = &[2]float64{*lng, *lat}
	case lat != nil || lng != nil:
		return f, fmt.Errorf("--lat y --lng van juntos")
	}
	for i, a := range f.Amenities {
		f.Amenities[i] = strings.TrimSpace(a)
	}
	return f, nil
}

func favoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Favoritos del inquilino autenticado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			user, err := usecase.NewUserUseCase(client).Me(cmd.Context())
			if err != nil {
				return err
			}
			view, err := usecase.NewTenantUseCase(client).Favorites(cmd.Context(), user)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
	for _, action := range []string{"add", "remove"} {
		cmd.AddCommand(favoriteActionCmd(action))
	}
	return cmd
}

func favoriteActionCmd(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " ID",
		Short: action + " una propiedad de favoritos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			user, err := usecase.NewUserUseCase(client).Me(cmd.Context())
			if err != nil {
				return err
			}
			req := dto.FavoriteRequest{CognitoID: user.CognitoInfo.UserID, PropertyID: id}
			mutation := client.AddFavoriteProperty
			if action == "remove" {
				mutation = client.RemoveFavoriteProperty
			}
			tenant, err := mutation.Do(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.FavoriteToggleResponse{PropertyID: id, IsFavorite: tenant.HasFavorite(id)})
		},
	}
}

func leasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leases",
		Short: "Contratos",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "Contratos visibles para el usuario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			leases, err := usecase.NewLeaseUseCase(client).Leases(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), leases)
		},
	}
	property := &cobra.Command{
		Use:   "property ID",
		Short: "Contratos de una propiedad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			leases, err := usecase.NewLeaseUseCase(client).PropertyLeases(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), leases)
		},
	}
	cmd.AddCommand(list, property)
	return cmd
}

func paymentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payments LEASE_ID",
		Short: "Pagos de un contrato con totales",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			view, err := usecase.NewLeaseUseCase(client).Payments(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
}
