package usecase

import (
	"testing"

	"go.uber.org/goleak"
)

// The vault must not leak goroutines: every operation completes synchronously.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
