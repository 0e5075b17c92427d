package contextkeys

// Ключи, под которыми AuthMiddleware кладет данные принципала в gin.Context.
// gin.Context.Set принимает только string, поэтому здесь обычные строки.
const (
	UserIDKey      = "userID"
	RoleKey        = "role"
	UserNameKey    = "userName"
	PermissionsKey = "permissions"
)
