package credential

// Credential is the access/refresh token pair issued by the booking
// service. Pairs are immutable once issued: login and refresh replace
// the whole value, nothing ever mutates a single field in place.
type Credential struct {
	// Access is the short-lived JWT sent on protected requests.
	// Usage: "Authorization: Bearer <access>"
	Access string `json:"access"`

	// Refresh is the long-lived opaque token exchanged for a new pair.
	// Rotates on every refresh.
	Refresh string `json:"refresh"`
}
