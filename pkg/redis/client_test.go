package redis

import (
	"testing"

	"github.com/markwize/quotewizard-backend/pkg/config"
)

func TestKeyBuilders(t *testing.T) {
	t.Parallel()

	c := &Client{}

	if got := c.SessionKey("abc"); got != "mw:session:abc" {
		t.Fatalf("unexpected session key %q", got)
	}
	if got := c.ReferralKey("visitor-1"); got != "mw:referral:visitor-1" {
		t.Fatalf("unexpected referral key %q", got)
	}
	if got := c.SubmitLockKey("abc"); got != "mw:lock:submit:abc" {
		t.Fatalf("unexpected lock key %q", got)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address set")
	}
}

func TestOptionsFromConfigAddress(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 2, PoolSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 || opts.PoolSize != 5 {
		t.Fatalf("options not carried over: %+v", opts)
	}
}
