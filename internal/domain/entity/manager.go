package entity

// Manager perfil de administrador de propiedades.
type Manager struct {
	Profile
	ManagedProperties []Property `json:"managedProperties,omitempty"`
}
