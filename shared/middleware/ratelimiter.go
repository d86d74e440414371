package middleware

import (
	"fmt"
	"net"
	"net/http"

	"github.com/itchan-dev/postboard/shared/api"
	"github.com/itchan-dev/postboard/shared/errors"
	"github.com/itchan-dev/postboard/shared/middleware/ratelimiter"
	"github.com/itchan-dev/postboard/shared/utils"
)

func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				w.Header().Set("Retry-After", "1")
				utils.WriteErrorAndStatusCode(w, errors.TooManyRequests(api.CodeRateLimited))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GlobalRateLimit(rl *ratelimiter.UserRateLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// GetIP returns the client IP from RemoteAddr. Proxy headers are resolved
// earlier by chi's RealIP middleware, which rewrites RemoteAddr.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RealIP sets RemoteAddr without a port
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return ip, nil
}
