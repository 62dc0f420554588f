// Package health serves the liveness and readiness probes of the courier
// worker.
//
// Readiness runs every registered [CheckFunc] in parallel under a shared
// timeout. The Postgres pool, the Redis client and the job manager each
// expose a closure with the matching signature:
//
//	checks := health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "jobs":     manager.Healthcheck(),
//	}
//	srv := &http.Server{Handler: health.Router(checks, health.WithLogger(log))}
//
// Responses are plain text ("OK" or "Service Unavailable") unless the client
// asks for JSON with an Accept header or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "postgres": {"status": "healthy"},
//	    "redis": {"status": "unhealthy", "error": "connection refused"}
//	  }
//	}
package health
