// Package redis connects to Redis with go-redis/v9.
//
// The client backs identity.RedisStore, the self-hosted replacement for the
// hosted identity provider's metadata API.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := identity.NewRedisStore(client, cfg.KeyPrefix)
//
// Healthcheck returns a check suitable for readiness endpoints.
package redis
