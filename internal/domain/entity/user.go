package entity

// Roles válidos para User (claim custom:role del id token).
const (
	RoleManager = "manager"
	RoleTenant  = "tenant"
)

// CognitoInfo datos del usuario según el proveedor de identidad.
type CognitoInfo struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Profile es el perfil del backend asociado al usuario: Tenant o Manager.
type Profile struct {
	ID          int64  `json:"id"`
	CognitoID   string `json:"cognitoId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// User compone identidad, perfil del backend y rol. Se construye al iniciar sesión
// y solo vive en la caché en memoria.
type User struct {
	CognitoInfo CognitoInfo `json:"cognitoInfo"`
	UserInfo    Profile     `json:"userInfo"`
	UserRole    string      `json:"userRole"`
}

// IsManager indica si el usuario tiene rol manager.
func (u *User) IsManager() bool { return u != nil && u.UserRole == RoleManager }

// IsTenant indica si el usuario tiene rol tenant.
func (u *User) IsTenant() bool { return u != nil && u.UserRole == RoleTenant }
