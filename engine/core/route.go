package core

import "strings"

type Handler string

const (
	HandlerFunction          Handler = "serverless-function"
	HandlerFunctionStreaming Handler = "serverless-function-streaming"
	HandlerRedirect          Handler = "http-redirect"
	HandlerProxy             Handler = "http-proxy"
	HandlerAsset             Handler = "asset"
)

// MethodAny matches every HTTP method.
const MethodAny = "ANY"

type RequirementType string

const (
	RequirementHost   RequirementType = "host"
	RequirementHeader RequirementType = "header"
	RequirementCookie RequirementType = "cookie"
	RequirementQuery  RequirementType = "query"
)

// Requirement is a request match condition. Value is an optional regex.
type Requirement struct {
	Type  RequirementType `json:"type"            yaml:"type"            mapstructure:"type"`
	Key   string          `json:"key,omitempty"   yaml:"key,omitempty"   mapstructure:"key,omitempty"`
	Value string          `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value,omitempty"`
}

type Route struct {
	Path                 string            `json:"path"                           yaml:"path"                           mapstructure:"path"`
	Destination          string            `json:"destination"                    yaml:"destination"                    mapstructure:"destination"`
	Handler              Handler           `json:"handler"                        yaml:"handler"                        mapstructure:"handler"`
	Methods              []string          `json:"methods"                        yaml:"methods"                        mapstructure:"methods"`
	Headers              map[string]string `json:"headers,omitempty"              yaml:"headers,omitempty"              mapstructure:"headers,omitempty"`
	PositiveRequirements []Requirement     `json:"positiveRequirements,omitempty" yaml:"positiveRequirements,omitempty" mapstructure:"positiveRequirements,omitempty"`
	NegativeRequirements []Requirement     `json:"negativeRequirements,omitempty" yaml:"negativeRequirements,omitempty" mapstructure:"negativeRequirements,omitempty"`
	Status               int               `json:"status,omitempty"               yaml:"status,omitempty"               mapstructure:"status,omitempty"`
}

// IsExternalURL reports whether destination is an absolute http(s) URL.
func IsExternalURL(destination string) bool {
	lower := strings.ToLower(destination)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ClassifyDestination derives a route handler from the destination's shape
// and the explicit redirect flag. The route path is never consulted.
func ClassifyDestination(destination string, redirect bool) Handler {
	switch {
	case redirect:
		return HandlerRedirect
	case IsExternalURL(destination):
		return HandlerProxy
	default:
		return HandlerFunction
	}
}

// FunctionHandler returns the function handler variant for a runtime.
func FunctionHandler(runtime Runtime) Handler {
	if runtime.SupportsStreaming() {
		return HandlerFunctionStreaming
	}
	return HandlerFunction
}
