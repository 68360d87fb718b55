package types

// UserClaims represents the JWT token claims the request service needs.
// Token issuance and refresh live in the auth service; this service only
// decodes the identity and role of the caller.
type UserClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	CRM      string `json:"crm,omitempty"`
}
