package twofactor

import (
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// per-user limiters for code creation, evicted after idling
var codeRequestLimiters = cache.New(30*time.Minute, 5*time.Minute)

var codeRequestInterval = rate.Every(time.Minute)

const codeRequestBurst = 3

func allowCodeRequest(userID string) bool {
	value, found := codeRequestLimiters.Get(userID)
	limiter, ok := value.(*rate.Limiter)
	if !found || !ok {
		limiter = rate.NewLimiter(codeRequestInterval, codeRequestBurst)
		codeRequestLimiters.Set(userID, limiter, cache.DefaultExpiration)
	}
	return limiter.Allow()
}

// ResetCodeRequestLimiter clears the limiter of userID, for tests.
func ResetCodeRequestLimiter(userID string) {
	codeRequestLimiters.Delete(userID)
}
