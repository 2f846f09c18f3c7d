package utils

import (
	"context"
	"time"

	"github.com/mojocn/base64Captcha"
)

// redisCaptchaStore implements base64Captcha.Store backed by Redis so captcha
// verification works behind load balancers. It falls back to the in-memory
// store when Redis is unreachable.
type redisCaptchaStore struct {
	ttl time.Duration
}

var captchaStore base64Captcha.Store = &redisCaptchaStore{ttl: 10 * time.Minute}

func (s *redisCaptchaStore) key(id string) string {
	return "captcha:" + id
}

// Set stores the captcha answer with TTL.
func (s *redisCaptchaStore) Set(id string, value string) error {
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Set(ctx, s.key(id), value, s.ttl).Err(); err != nil {
		return base64Captcha.DefaultMemStore.Set(id, value)
	}
	return nil
}

// Get retrieves the answer and optionally clears it.
func (s *redisCaptchaStore) Get(id string, clear bool) string {
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	key := s.key(id)
	if clear {
		if v, err := rc.GetDel(ctx, key).Result(); err == nil {
			return v
		}
		return base64Captcha.DefaultMemStore.Get(id, clear)
	}
	v, err := rc.Get(ctx, key).Result()
	if err != nil {
		return base64Captcha.DefaultMemStore.Get(id, clear)
	}
	return v
}

// Verify compares the answer and optionally consumes it.
func (s *redisCaptchaStore) Verify(id, answer string, clear bool) bool {
	v := s.Get(id, clear)
	return v != "" && v == answer
}

// GenerateCaptcha creates a captcha and returns (id, dataURI) for the
// frontend to display.
func GenerateCaptcha() (string, string, error) {
	driver := base64Captcha.NewDriverDigit(40, 120, 5, 0.7, 80)
	c := base64Captcha.NewCaptcha(driver, captchaStore)
	id, b64, _, err := c.Generate()
	return id, b64, err
}

// VerifyCaptcha verifies the provided answer; it consumes the captcha on success.
func VerifyCaptcha(id, answer string) bool {
	if id == "" || answer == "" {
		return false
	}
	return captchaStore.Verify(id, answer, true)
}

// VerifyCaptchaNoConsume verifies without consuming the stored answer.
func VerifyCaptchaNoConsume(id, answer string) bool {
	if id == "" || answer == "" {
		return false
	}
	return captchaStore.Verify(id, answer, false)
}
