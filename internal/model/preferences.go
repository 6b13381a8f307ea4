package model

// Preferences are household-wide display settings.
type Preferences struct {
	DateFormat string `json:"date_format"`
	Language   string `json:"language"`
}
