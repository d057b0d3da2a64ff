package api

import "golang.org/x/time/rate"

// Option configures a Server.
type Option func(*Server)

// WithRateLimit caps the standings endpoints at rps requests per second with
// the given burst. A non-positive rps leaves them unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}
