/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /places", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). The wrapper forwards Flush, so event streams can be logged too.

# CORS Middleware

Enable cross-origin requests for the dashboard:

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigin, mux),
	}

An empty origin reflects the caller's Origin header.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var in models.VotingInput
	if err := middleware.ParseJSONBody(r, &in); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Honours X-Forwarded-For and X-Real-IP before RemoteAddr.
*/
package middleware
