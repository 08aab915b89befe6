// pkg/registry/schema.go
package registry

type FlowRegistry struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Flows       []Flow `json:"flows"`
}

type Flow struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Tags                 []string               `json:"tags"`
}

// Summary is the registry entry without its schemas, as listed by the API.
type Summary struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Version     string   `json:"version"`
	Timeout     string   `json:"timeout"`
	Tags        []string `json:"tags"`
}

func (f Flow) Summary() Summary {
	return Summary{
		ID:          f.ID,
		DisplayName: f.DisplayName,
		Description: f.Description,
		Category:    f.Category,
		Version:     f.Version,
		Timeout:     f.Timeout,
		Tags:        f.Tags,
	}
}
