package api

import (
	"github.com/jhoicas/rentals-web/internal/domain/entity"
	"github.com/jhoicas/rentals-web/internal/querycache"
)

// Tipos de tag de la caché.
const (
	TagManagers        = "Managers"
	TagTenants         = "Tenants"
	TagProperties      = "Properties"
	TagPropertyDetails = "PropertyDetails"
	TagLeases          = "Leases"
	TagPayments        = "Payments"
)

// propertyTags provee un tag por propiedad más el LIST de la colección.
// Si la consulta falló solo queda el LIST, para que cualquier alta la reintente.
func propertyTags(props []entity.Property, err error) []querycache.Tag {
	if err != nil {
		return []querycache.Tag{querycache.ListTag(TagProperties)}
	}
	tags := make([]querycache.Tag, 0, len(props)+1)
	for _, p := range props {
		tags = append(tags, querycache.TagOf(TagProperties, p.ID))
	}
	return append(tags, querycache.ListTag(TagProperties))
}

// profileTag tag del perfil según el rol.
func profileTag(role string, id int64) querycache.Tag {
	if role == entity.RoleManager {
		return querycache.TagOf(TagManagers, id)
	}
	return querycache.TagOf(TagTenants, id)
}
