package redis

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultEmailCodeTTL = 5 * time.Minute
	EmailCodePrefix     = "email:code"

	// Codes live under a pending key until the mail goes out, then move to
	// a confirmed key the verify step reads.
	PendingSuffix   = "pending"
	ConfirmedSuffix = "confirmed"
)

var (
	ErrEmailNotFound       = errors.New("email code not found")
	ErrEmailCodeDelFailed  = errors.New("email code delete failed")
	ErrCodePendingFailed   = errors.New("code pending failed")
	ErrCodeConfirmedFailed = errors.New("code confirmed failed")
)

// EmailRepository stores verification codes per scope (register / reset).
type EmailRepository struct{}

func key(scope, phase, email string) string {
	return fmt.Sprintf("%s:%s:%s:%s", EmailCodePrefix, scope, phase, email)
}

func (e *EmailRepository) SetPending(scope, email, code string) error {
	if err := Client.Set(context.Background(), key(scope, PendingSuffix, email), code, DefaultEmailCodeTTL).Err(); err != nil {
		return ErrCodePendingFailed
	}
	return nil
}

// Confirm atomically moves the pending code to the confirmed key with a
// fresh TTL.
func (e *EmailRepository) Confirm(scope, email string) error {
	script := `
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
redis.call("SET", KEYS[2], val, "PX", ARGV[1])
redis.call("DEL", KEYS[1])
return 1
`
	px := int64(DefaultEmailCodeTTL / time.Millisecond)
	res := Client.Eval(context.Background(), script,
		[]string{key(scope, PendingSuffix, email), key(scope, ConfirmedSuffix, email)}, px)
	if err := res.Err(); err != nil {
		return ErrCodeConfirmedFailed
	}
	if ok, _ := res.Int(); ok != 1 {
		return ErrCodeConfirmedFailed
	}
	return nil
}

func (e *EmailRepository) DeletePending(scope, email string) error {
	if err := Client.Del(context.Background(), key(scope, PendingSuffix, email)).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}

func (e *EmailRepository) Get(scope, email string) (string, error) {
	val, err := Client.Get(context.Background(), key(scope, ConfirmedSuffix, email)).Result()
	if err != nil {
		return "", ErrEmailNotFound
	}
	return val, nil
}

func (e *EmailRepository) Delete(scope, email string) error {
	if err := Client.Del(context.Background(), key(scope, ConfirmedSuffix, email)).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}
