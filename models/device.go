package models

// DeviceInfo holds the display metadata of a registered tracker.
type DeviceInfo struct {
	Nome  string `json:"nome"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}
