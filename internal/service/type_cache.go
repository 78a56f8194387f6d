package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/nomzodai/nomzod-api/internal/cache"
	"github.com/nomzodai/nomzod-api/internal/domain/question"
	"github.com/nomzodai/nomzod-api/internal/observability"
)

// Entries are stored under the current generation. Writers replace the
// generation after commit, so a read that raced a write parks its result under
// a key nobody asks for again.
const typesGenKey = "question_types:gen"

func typesListKey(gen string) string {
	return "question_types:" + gen + ":list"
}

func typeKey(gen string, id int64) string {
	return "question_types:" + gen + ":" + strconv.FormatInt(id, 10)
}

// typeCache wraps the read-model cache for question types. Failures are
// logged and treated as misses. A nil cache disables caching.
type typeCache struct {
	c    cache.Cache
	prom *observability.Prom
	log  *slog.Logger
}

// generation returns the current generation, starting one when none is
// stored. An empty result disables caching for the call.
func (t typeCache) generation(ctx context.Context) string {
	if t.c == nil {
		return ""
	}

	var gen string
	ok, err := t.c.Get(ctx, typesGenKey, &gen)
	if err != nil {
		t.log.WarnContext(ctx, "cache generation read failed", "err", err)
		t.prom.ObserveCache("error")
		return ""
	}
	if ok && gen != "" {
		return gen
	}

	gen = uuid.NewString()
	if err := t.c.Set(ctx, typesGenKey, gen); err != nil {
		t.log.WarnContext(ctx, "cache generation write failed", "err", err)
		return ""
	}
	return gen
}

// getType returns the cached type and the key a fresh value should be stored
// under on a miss.
func (t typeCache) getType(ctx context.Context, id int64) (question.Type, string, bool) {
	var out question.Type

	gen := t.generation(ctx)
	if gen == "" {
		return out, "", false
	}

	key := typeKey(gen, id)
	return out, key, t.get(ctx, key, &out)
}

func (t typeCache) getList(ctx context.Context) ([]question.Type, string, bool) {
	var out []question.Type

	gen := t.generation(ctx)
	if gen == "" {
		return out, "", false
	}

	key := typesListKey(gen)
	return out, key, t.get(ctx, key, &out)
}

func (t typeCache) get(ctx context.Context, key string, dest any) bool {
	ok, err := t.c.Get(ctx, key, dest)
	if err != nil {
		t.log.WarnContext(ctx, "cache get failed", "key", key, "err", err)
		t.prom.ObserveCache("error")
		return false
	}

	if ok {
		t.prom.ObserveCache("hit")
	} else {
		t.prom.ObserveCache("miss")
	}
	return ok
}

func (t typeCache) set(ctx context.Context, key string, val any) {
	if t.c == nil || key == "" {
		return
	}
	if err := t.c.Set(ctx, key, val); err != nil {
		t.log.WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
}

// invalidate starts a new generation. Entries of older generations expire
// with the cache TTL.
func (t typeCache) invalidate(ctx context.Context) {
	if t.c == nil {
		return
	}
	if err := t.c.Set(ctx, typesGenKey, uuid.NewString()); err != nil {
		t.log.WarnContext(ctx, "cache invalidate failed", "err", err)
	}
}
