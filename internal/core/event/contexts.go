package event

// Copied values keep the type they had in the report (string, json.Number, bool, nil)

// DeviceContext describes the client machine
type DeviceContext struct {
	Family       string `json:"family"`
	Arch         string `json:"arch"`
	Name         any    `json:"name"`
	Manufacturer any    `json:"manufacturer"`
	MemorySize   any    `json:"memory_size"`
	FreeMemory   any    `json:"free_memory"`
}

// Map returns the wire keys
func (d DeviceContext) Map() map[string]any {
	return map[string]any{
		"family":       d.Family,
		"arch":         d.Arch,
		"name":         d.Name,
		"manufacturer": d.Manufacturer,
		"memory_size":  d.MemorySize,
		"free_memory":  d.FreeMemory,
	}
}

// OSContext describes the client operating system
type OSContext struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Map returns the wire keys
func (o OSContext) Map() map[string]any {
	return map[string]any{"name": o.Name, "version": o.Version}
}

// RuntimeContext describes the client runtime
type RuntimeContext struct {
	Name    any `json:"name"`
	Version any `json:"version"`
}

// Map returns the wire keys
func (r RuntimeContext) Map() map[string]any {
	return map[string]any{"name": r.Name, "version": r.Version}
}

// AppContext describes the configuration that crashed
type AppContext struct {
	Identifier any `json:"app_identifier"`
	Name       any `json:"app_name"`
	Version    any `json:"app_version"`
	Build      any `json:"app_build"`
}

// Map returns the wire keys
func (a AppContext) Map() map[string]any {
	return map[string]any{
		"app_identifier": a.Identifier,
		"app_name":       a.Name,
		"app_version":    a.Version,
		"app_build":      a.Build,
	}
}
