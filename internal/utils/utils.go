package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ParseDurationEnv parses an env value as a time.Duration. Both "10s"/"5m"
// and a bare number of seconds ("10") are accepted, since hosting panels
// tend to strip suffixes.
func ParseDurationEnv(s string) (time.Duration, error) {
	s = unquote(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	// Bare number first so "10" never reaches time.ParseDuration.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

// unquote strips one pair of surrounding quotes; some panels store
// env values as "10s" or '10s' literally.
func unquote(s string) string {
	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		return s[1 : len(s)-1]
	}
	return s
}

// RedisParams is connection info extracted from a redis:// or rediss:// URL.
type RedisParams struct {
	Addr     string
	Password string
	DB       int
}

// ParseRedisURL breaks a managed-Redis URL (e.g. Railway REDIS_URL) into
// the pieces go-redis wants.
func ParseRedisURL(s string) (RedisParams, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return RedisParams{}, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return RedisParams{}, fmt.Errorf("scheme must be redis or rediss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return RedisParams{}, fmt.Errorf("missing host in Redis URL")
	}
	p := RedisParams{Addr: u.Host}
	if u.User != nil {
		p.Password, _ = u.User.Password()
	}
	if len(u.Path) > 1 {
		p.DB, _ = strconv.Atoi(strings.TrimPrefix(u.Path, "/"))
	}
	return p, nil
}

// NormalizeEmail trims and lowercases a credential email so the same
// account is found however the user capitalizes it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsPGUniqueViolation reports whether error is PostgreSQL unique constraint violation (code 23505).
func IsPGUniqueViolation(err error) bool {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	return false
}
