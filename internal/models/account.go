package models

// DemoAccountID is the reserved sentinel id for the built-in demo account.
// A publish run targeting it simulates every remote call instead of hitting
// the Graph API.
const DemoAccountID = "demo_account"

// Account identifies the Instagram account a publish run targets.
type Account struct {
	ID          string `json:"id"`
	AccessToken string `json:"accessToken,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Handle      string `json:"handle,omitempty"`
}

// IsDemo reports whether the account is the simulation sentinel.
func (a Account) IsDemo() bool {
	return a.ID == DemoAccountID
}
