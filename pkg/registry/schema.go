// pkg/registry/schema.go
package registry

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}

type schema = map[string]interface{}

func object(required []string, props schema) schema {
	s := schema{"type": "object", "properties": props}
	if len(required) > 0 {
		req := make([]interface{}, len(required))
		for i, r := range required {
			req[i] = r
		}
		s["required"] = req
	}
	return s
}

func typed(t string) schema { return schema{"type": t} }

func numberIn(min, max float64) schema {
	return schema{"type": "number", "minimum": min, "maximum": max}
}

func arrayOf(items schema) schema { return schema{"type": "array", "items": items} }

var catalogItemSchema = object([]string{"id"}, schema{
	"id":              schema{"type": "string", "minLength": 1},
	"title":           typed("string"),
	"titleHe":         typed("string"),
	"merchantName":    typed("string"),
	"category":        typed("string"),
	"originalPrice":   typed("number"),
	"discountedPrice": typed("number"),
	"discountPercent": typed("number"),
	"validUntil":      typed("string"),
	"inStock":         typed("boolean"),
	"popular":         typed("boolean"),
})

var questionnaireSchema = schema{
	"type":                 "object",
	"additionalProperties": typed("string"),
}
