package entity

import "time"

// Command names understood by the vendor collector. They mirror the gtag
// command vocabulary so queued entries can be replayed verbatim.
const (
	CommandJS      = "js"
	CommandConfig  = "config"
	CommandEvent   = "event"
	CommandConsent = "consent"
)

// Command is one entry of the vendor command queue (the dataLayer).
type Command struct {
	Name     string         `json:"name"`
	Target   string         `json:"target,omitempty"` // measurement ID, event action or consent mode
	Params   map[string]any `json:"params,omitempty"`
	IssuedAt time.Time      `json:"issued_at"`
}
