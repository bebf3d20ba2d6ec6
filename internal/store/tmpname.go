package store

import (
	"os"
	"strconv"
	"sync/atomic"
	"time"
)

var tmpCounter atomic.Uint64

// randSuffix returns a per-process-unique suffix for temporary file names.
// Collisions are harmless (distinct writers hold fs.mu) but would be
// confusing to debug, so keep it unique anyway.
func randSuffix() string {
	n := tmpCounter.Add(1)
	return strconv.FormatInt(time.Now().UnixNano(), 36) + "-" +
		strconv.FormatUint(n, 36) + "-" + strconv.Itoa(os.Getpid())
}
