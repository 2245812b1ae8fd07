package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/vnkhanh/surveybot/config"
	"github.com/vnkhanh/surveybot/logger"
)

// Mỗi IP có một limiter riêng + lastSeen để dọn dẹp
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter quản lý map<ip, limiter>
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	// cấu hình chung cho tất cả IP
	reqPerMin int // số request/phút
	burst     int // số burst cho phép
	ttl       time.Duration

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// reqPerMin: ví dụ 30, burst: 10, ttl: 5 phút (IP không hoạt động sẽ bị dọn)
func NewIPRateLimiter(reqPerMin, burst int, ttl time.Duration) *IPRateLimiter {
	rl := &IPRateLimiter{
		visitors:  make(map[string]*visitor),
		reqPerMin: reqPerMin,
		burst:     burst,
		ttl:       ttl,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	// chạy nền dọn IP cũ
	go rl.cleanupVisitors()
	return rl
}

func (rl *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.visitors[ip]; ok {
		v.lastSeen = time.Now()
		return v.limiter
	}

	// chuyển req/phút -> rate.Limit (req/giây); <= 0 nghĩa là không giới hạn
	limit := rate.Inf
	if rl.reqPerMin > 0 {
		limit = rate.Limit(float64(rl.reqPerMin) / 60.0)
	}
	limiter := rate.NewLimiter(limit, rl.burst)
	rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

func (rl *IPRateLimiter) cleanupVisitors() {
	defer close(rl.done)
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > rl.ttl {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop dừng goroutine dọn dẹp; gọi nhiều lần vẫn an toàn.
func (rl *IPRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
	<-rl.done
}

// ====== Middleware dùng cho 1 endpoint cụ thể ======

func RateLimitByIP(rl *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP() // Gin sẽ xét X-Forwarded-For nếu đã cấu hình TrustedProxies
		limiter := rl.getLimiter(ip)
		if !limiter.Allow() {
			logger.L.Warn("rate limited", "ip", ip, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}

// ====== Limiter theo cấu hình ======

// Hai limiter dùng chung cho cả process, tạo một lần từ config.App lúc dựng route.
var (
	ResponsesLimiter *IPRateLimiter
	AuthLimiter      *IPRateLimiter
	limitersOnce     sync.Once
)

func initLimiters() {
	limitersOnce.Do(func() {
		ResponsesLimiter = NewIPRateLimiter(config.App.ResponseRatePerMin, config.App.ResponseRateBurst, 5*time.Minute)
		AuthLimiter = NewIPRateLimiter(config.App.AuthRatePerMin, config.App.AuthRateBurst, 5*time.Minute)
	})
}

// RateLimitResponses: gắn vào route gửi phản hồi công khai.
func RateLimitResponses() gin.HandlerFunc {
	initLimiters()
	return RateLimitByIP(ResponsesLimiter)
}

// RateLimitAuth: gắn vào login/signup để chặn dò mật khẩu.
func RateLimitAuth() gin.HandlerFunc {
	initLimiters()
	return RateLimitByIP(AuthLimiter)
}
