package globals

import (
	"context"

	"stayhub/config"
)

var JwtSecret = []byte(config.Cfg.JWTSecret)

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()
