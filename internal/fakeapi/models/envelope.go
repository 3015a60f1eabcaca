// Package models defines the request and response bodies of the fake MMWS
// API. They mirror the envelopes of the real server.
package models

import "encoding/json"

// ErrorBody is the content of an error envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope of every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ResultResponse is the envelope of every successful request with a body.
type ResultResponse struct {
	Result any `json:"result"`
}

// CreateResult lists the references assigned by a create.
type CreateResult struct {
	ObjRefs []string `json:"objRefs"`
}

// StatusResponse is returned by the health endpoint.
type StatusResponse struct {
	Status  string `json:"status"`
	Objects int    `json:"objects"`
}

// UpdateRequest is the body of a PUT on an object reference. Properties is
// a list of property maps or a single map.
type UpdateRequest struct {
	Ref               string          `json:"ref"`
	ObjType           string          `json:"objType"`
	SaveComment       string          `json:"saveComment"`
	DeleteUnspecified bool            `json:"deleteUnspecified"`
	Properties        json.RawMessage `json:"properties"`
}

// AccessRequest is the body of a PUT on "<ref>/Access".
type AccessRequest struct {
	ObjType        string `json:"objType"`
	SaveComment    string `json:"saveComment"`
	IdentityAccess []any  `json:"identityAccess"`
}

// PropertyDefinitionRequest is the body of a POST or PUT on
// "<ref>/PropertyDefinitions".
type PropertyDefinitionRequest struct {
	SaveComment        string         `json:"saveComment"`
	UpdateExisting     bool           `json:"updateExisting"`
	PropertyDefinition map[string]any `json:"propertyDefinition"`
}

// CommentRequest is the body of a membership PUT.
type CommentRequest struct {
	SaveComment string `json:"saveComment"`
}
