package app

import (
	"os"
	"sync"
)

// TestModeEnv is set to "1" by the testing package so binaries built for
// tests skip opening network listeners and database pools.
const TestModeEnv = "STOCKROOM_TEST_MODE"

var testMode = sync.OnceValue(func() bool {
	return os.Getenv(TestModeEnv) == "1"
})

// InTestMode reports whether the application should skip runtime side
// effects. The environment is read once.
func InTestMode() bool {
	return testMode()
}
