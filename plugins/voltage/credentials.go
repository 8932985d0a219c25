package voltage

import "time"

const (
	CredentialName = "voltageApi"
	DefaultBaseURL = "https://voltageapi.com/api/v1"
)

// Credentials configure the API client. Timeout is in milliseconds.
type Credentials struct {
	APIKey  string `yaml:"api_key" json:"apiKey" validate:"required"`
	BaseURL string `yaml:"base_url" json:"baseUrl" default:"https://voltageapi.com/api/v1" validate:"required,url"`
	Timeout int    `yaml:"timeout" json:"timeout" default:"30000" validate:"gte=0"`
}

func (c Credentials) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// CredentialType describes the voltageApi credential for hosts that render it.
type CredentialType struct {
	Name             string     `json:"name"`
	DisplayName      string     `json:"displayName"`
	DocumentationURL string     `json:"documentationUrl"`
	Properties       []Property `json:"properties"`
}

func CredentialDescription() CredentialType {
	return CredentialType{
		Name:             CredentialName,
		DisplayName:      "Voltage API",
		DocumentationURL: "https://voltageapi.com/docs",
		Properties: []Property{
			{DisplayName: "API Key", Name: "apiKey", Type: TypeString, Required: true, Default: "", Description: "Your Voltage API key (starts with vltg_)"},
			{DisplayName: "Base URL", Name: "baseUrl", Type: TypeString, Default: DefaultBaseURL, Description: "The base URL for the Voltage API"},
			{DisplayName: "Timeout", Name: "timeout", Type: TypeNumber, Default: 30000, Description: "Request timeout in milliseconds"},
		},
	}
}
