package redis

import "fmt"

// sessionKey returns the Redis key holding one session
func (s *SessionStore) sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", s.cfg.KeyPrefix, token)
}
