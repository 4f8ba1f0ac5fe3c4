package testutil

import (
	"net/http"

	"docflow/pkg/requestcontext"
)

// WithIdentity attaches the caller identity the auth middleware would set.
func WithIdentity(req *http.Request, email string, role requestcontext.Role) *http.Request {
	return req.WithContext(requestcontext.WithIdentity(req.Context(), email, role))
}

// AsUser marks the request as coming from a requester.
func AsUser(req *http.Request, email string) *http.Request {
	return WithIdentity(req, email, requestcontext.RoleUser)
}

// AsAdmin marks the request as coming from an administrator.
func AsAdmin(req *http.Request, email string) *http.Request {
	return WithIdentity(req, email, requestcontext.RoleAdmin)
}

// WithRequestID adds a request id to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
