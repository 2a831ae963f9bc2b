package services

import (
	"context"
	"time"

	"unafeed/pkg/ai"
)

// Cache is the slice of the redis wrapper the services use; satisfied by
// *cache.Redis and by in-memory fakes in tests.
type Cache interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration)
	Del(keys ...string)
	DelPattern(pattern string)
}

// Moderator scores content; satisfied by *ai.Client.
type Moderator interface {
	CheckToxicity(ctx context.Context, text string) (ai.ToxicityResult, error)
}

// MemeGenerator produces a caption and a hosted image for /meme comments.
type MemeGenerator interface {
	GenerateMemeIdea(ctx context.Context, text string) (ai.MemeIdea, error)
	GenerateMemeImage(ctx context.Context, caption string) (string, error)
}

type noopCache struct{}

func (noopCache) Get(string, interface{}) bool           { return false }
func (noopCache) Set(string, interface{}, time.Duration) {}
func (noopCache) Del(...string)                          {}
func (noopCache) DelPattern(string)                      {}

// NopCache disables caching; used in tests.
var NopCache Cache = noopCache{}
