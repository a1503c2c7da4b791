package cache

import (
	"fmt"
	"strings"
	"time"
)

const (
	ContentTTL      = 5 * time.Minute
	DashboardTTL    = 2 * time.Minute
	ContentKeysGlob = "content:*"
)

func ContentSlugKey(slug string) string {
	return "content:slug:" + slug
}

func ContentListKey(kind string, page, limit int) string {
	return fmt.Sprintf("content:list:%s:%d:%d", kind, page, limit)
}

func DashboardKey() string {
	return "admin:dashboard"
}

func LoginAttemptsKey(email string) string {
	return "ratelimit:login:" + strings.ToLower(strings.TrimSpace(email))
}
