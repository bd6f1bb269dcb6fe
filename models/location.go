package models

// Location is the latest known position reported by a device. It is replaced
// wholesale on every ingestion; Endereco stays empty until a viewer asks for
// the address.
type Location struct {
	DeviceID  string   `json:"device_id"`
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Timestamp float64  `json:"timestamp"`
	Endereco  string   `json:"endereco"`
	Bateria   *float64 `json:"bateria,omitempty"`
}

// TrailPoint is the reduced projection of a Location kept in the per-device
// trail used to draw the path on the map.
type TrailPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp float64 `json:"timestamp"`
}
