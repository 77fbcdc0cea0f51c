package entity

// Tenant perfil de inquilino; Favorites se desnormaliza en las tarjetas de propiedades.
type Tenant struct {
	Profile
	Favorites  []Property `json:"favorites,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

// HasFavorite indica si propertyID está entre los favoritos del inquilino.
func (t *Tenant) HasFavorite(propertyID int64) bool {
	if t == nil {
		return false
	}
	for _, p := range t.Favorites {
		if p.ID == propertyID {
			return true
		}
	}
	return false
}

// FavoriteIDs devuelve los ids de las propiedades favoritas.
func (t *Tenant) FavoriteIDs() []int64 {
	if t == nil {
		return nil
	}
	ids := make([]int64, 0, len(t.Favorites))
	for _, p := range t.Favorites {
		ids = append(ids, p.ID)
	}
	return ids
}
