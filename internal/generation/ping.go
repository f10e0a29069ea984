package generation

import "context"

// PingContext checks the Redis L2 connection. It is a no-op without Redis.
func (s *Stack) PingContext(ctx context.Context) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Ping(ctx).Err()
}
