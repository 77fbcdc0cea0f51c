package dto

// CreateProfileRequest cuerpo de POST /tenants y POST /managers (aprovisionamiento).
type CreateProfileRequest struct {
	CognitoID   string `json:"cognitoId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// UpdateSettingsRequest cambios parciales del perfil; CognitoID va en la ruta.
type UpdateSettingsRequest struct {
	CognitoID   string  `json:"cognitoId"`
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

// Body cuerpo del PUT sin el identificador.
func (r UpdateSettingsRequest) Body() map[string]string {
	body := make(map[string]string, 3)
	if r.Name != nil {
		body["name"] = *r.Name
	}
	if r.Email != nil {
		body["email"] = *r.Email
	}
	if r.PhoneNumber != nil {
		body["phoneNumber"] = *r.PhoneNumber
	}
	return body
}

// FavoriteRequest argumento de addFavoriteProperty / removeFavoriteProperty.
type FavoriteRequest struct {
	CognitoID  string `json:"cognitoId"`
	PropertyID int64  `json:"propertyId"`
}
