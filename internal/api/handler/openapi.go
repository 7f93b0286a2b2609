package handler

import (
	"net/http"
	"strings"
)

type Contact struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Email string `json:"email"`
}

type License struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Info is the service metadata published at /openapi.json.
type Info struct {
	Title          string  `json:"title"`
	Version        string  `json:"version"`
	Summary        string  `json:"summary"`
	Description    string  `json:"description"`
	TermsOfService string  `json:"termsOfService"`
	Contact        Contact `json:"contact"`
	License        License `json:"license"`
}

var ServiceInfo = Info{
	Title:   "JTA Residential Healthcare API",
	Version: "1.0.0",
	Summary: "API for managing staff, expenses, and shifts in JTA Residential Healthcare",
	Description: "The JTA Residential Healthcare API manages staff records, expenses and shifts " +
		"for a residential healthcare setting.",
	TermsOfService: "https://www.jtahealthcare.com/terms",
	Contact: Contact{
		Name:  "JTA Support",
		URL:   "https://www.jtahealthcare.com/support",
		Email: "support@jtahealthcare.com",
	},
	License: License{
		Name: "MIT License",
		URL:  "https://opensource.org/licenses/MIT",
	},
}

const bearerScheme = "OAuth2PasswordBearer"

type Operation struct {
	OperationID string                `json:"operationId"`
	Security    []map[string][]string `json:"security,omitempty"`
}

// Document is a minimal OpenAPI 3.1 description: metadata plus the route table.
type Document struct {
	OpenAPI    string                          `json:"openapi"`
	Info       Info                            `json:"info"`
	Paths      map[string]map[string]Operation `json:"paths"`
	Components map[string]any                  `json:"components"`
}

func NewDocument(info Info) *Document {
	return &Document{
		OpenAPI: "3.1.0",
		Info:    info,
		Paths:   map[string]map[string]Operation{},
		Components: map[string]any{
			"securitySchemes": map[string]any{
				bearerScheme: map[string]any{
					"type": "oauth2",
					"flows": map[string]any{
						"password": map[string]any{"tokenUrl": "token", "scopes": map[string]string{}},
					},
				},
			},
		},
	}
}

// AddOperation records one route. Protected operations require the bearer token.
func (d *Document) AddOperation(method, path string, protected bool) {
	method = strings.ToLower(method)
	op := Operation{OperationID: method + strings.NewReplacer("/", "_", "{", "", "}", "").Replace(path)}
	if protected {
		op.Security = []map[string][]string{{bearerScheme: {}}}
	}
	if d.Paths[path] == nil {
		d.Paths[path] = map[string]Operation{}
	}
	d.Paths[path][method] = op
}

// OpenAPI serves the document.
func OpenAPI(doc *Document) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, r, http.StatusOK, doc)
	}
}
