// Package obs carries the request id through contexts and times adapter
// operations against it, so slow provider or store calls can be correlated
// with the request line in the log.
package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// RequestIDKey is set by the HTTP logging middleware; background work (the
// sweeper, warmers) runs without it.
const RequestIDKey ctxKey = "req_id"

// Time logs the duration of an operation when the returned func runs, tagging
// it with the request id from ctx. Use with a named error return:
//
//	defer obs.Time(ctx, "route.cache.Get")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)
	if reqID == "" {
		reqID = "-"
	}

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%dms err=%v", reqID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%dms", reqID, name, dur.Milliseconds())
	}
}
