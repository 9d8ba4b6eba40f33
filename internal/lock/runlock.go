package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ======================================================
// LOCK — execução única do batch
// ======================================================

// RunLock é um lock consultivo em redis (SETNX + TTL) que impede duas
// rodadas simultâneas do batch de recorrência (ex.: crons sobrepostos).
// O TTL garante liberação mesmo se o processo morrer no meio da rodada.
type RunLock struct {
	client *redis.Client
}

func NewRunLock(client *redis.Client) *RunLock {
	return &RunLock{client: client}
}

// Acquire tenta tomar o lock. ok=false significa que outra rodada está
// em andamento; o chamador simplesmente não executa.
func (l *RunLock) Acquire(
	ctx context.Context,
	key string,
	ttl time.Duration,
) (release func(), ok bool, err error) {

	token := uuid.NewString()

	ok, err = l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}

	release = func() {
		// libera só se o token ainda for nosso (TTL pode ter expirado
		// e outro processo tomado o lock)
		current, err := l.client.Get(context.Background(), key).Result()
		if err == nil && current == token {
			l.client.Del(context.Background(), key)
		}
	}

	return release, true, nil
}
