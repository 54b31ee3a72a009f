package memory

import (
	"time"

	"faith-companion-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type PointerRepository struct {
	cache *cache.Cache
}

func NewPointerRepository() *PointerRepository {
	// Pointers expire after an hour of inactivity, purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &PointerRepository{
		cache: c,
	}
}

func pointerKey(userID, kind string) string {
	return userID + ":" + kind
}

func (r *PointerRepository) Save(pointer *store.ConversationPointer) {
	r.cache.Set(pointerKey(pointer.UserID, pointer.Kind), pointer, cache.DefaultExpiration)
}

func (r *PointerRepository) Get(userID, kind string) (*store.ConversationPointer, bool) {
	if x, found := r.cache.Get(pointerKey(userID, kind)); found {
		return x.(*store.ConversationPointer), true
	}
	return nil, false
}

func (r *PointerRepository) Touch(userID, kind string) {
	if p, found := r.Get(userID, kind); found {
		p.TurnCount++
		p.LastTurnAt = time.Now()
		r.Save(p)
	}
}

func (r *PointerRepository) Delete(userID, kind string) {
	r.cache.Delete(pointerKey(userID, kind))
}
