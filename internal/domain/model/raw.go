package model

// RawSku is one capability sighting for a SKU as reported by the
// compute provider, before any normalization. Unknown or extra
// provider fields are ignored at decode time; required fields absent
// here cause the sighting to be skipped with a warning downstream.
type RawSku struct {
	Name         string           `json:"name"`
	ResourceType string           `json:"resourceType"`
	Size         string           `json:"size"`
	Family       string           `json:"family"`
	Capabilities []RawCapability  `json:"capabilities"`
	LocationInfo []RawLocation    `json:"locationInfo"`
	Restrictions []RawRestriction `json:"restrictions"`
}

// RawCapability is a single name/value capability descriptor.
type RawCapability struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RawLocation carries per-location zone availability.
type RawLocation struct {
	Location string   `json:"location"`
	Zones    []string `json:"zones"`
}

// RawRestriction marks a SKU unavailable for some locations.
type RawRestriction struct {
	ReasonCode string   `json:"reasonCode"`
	Locations  []string `json:"locations"`
}
