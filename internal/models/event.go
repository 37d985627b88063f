package models

// Event types delivered by the notebook platform.
const (
	EventEntryCreated      = "entry.created"
	EventEntryUpdated      = "entry.updated"
	EventCanvasInteraction = "canvas.interaction"
	EventAppInstalled      = "app.installed"
	EventAppUninstalled    = "app.uninstalled"
	EventAppConfigUpdated  = "app.config_updated"
)

// WebhookEvent represents a single notebook webhook notification. It is
// constructed once per HTTP request and discarded after dispatch.
type WebhookEvent struct {
	Type       string `json:"type"`
	ResourceID string `json:"resourceId"`
	TenantID   string `json:"tenantId"`
	// ButtonID carries the canvas element identifier on interaction callbacks.
	ButtonID string `json:"buttonId,omitempty"`
}
