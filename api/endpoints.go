package api

// Endpoint path constants for the booking service.
// All consumed paths are defined here to ensure consistency and prevent typos.
const (
	// User / auth endpoints
	EndpointLogin    = "/users/login/"
	EndpointRefresh  = "/users/refresh/"
	EndpointRegister = "/users/register/"
	EndpointProfile  = "/users/profile/"
)
