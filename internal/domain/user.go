package domain

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// Identity - разрешенная личность вызывающего, извлеченная из bearer-токена.
// Передается явно во все сервисы, а не через глобальное состояние.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
