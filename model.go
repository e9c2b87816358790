package main

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

// objectInfo returns the bucket and key of an event record. The events
// package decodes the URL-encoded key while unmarshalling; records built in
// code may only carry Key.
func objectInfo(record events.S3EventRecord) S3ObjectInfo {
	key := record.S3.Object.URLDecodedKey
	if key == "" {
		key = record.S3.Object.Key
	}
	return S3ObjectInfo{Bucket: record.S3.Bucket.Name, Key: key}
}

// ResultEnvelope is the handler's return value. On success StatusCode and Resp
// carry the callback's status and JSON body, on failure only Error is set.
type ResultEnvelope struct {
	StatusCode int             `json:"status_code,omitempty"`
	Resp       json.RawMessage `json:"resp,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func errorEnvelope(err error) ResultEnvelope {
	return ResultEnvelope{Error: err.Error()}
}

// CallbackPayload is the JSON body sent to the callback URL.
type CallbackPayload struct {
	Bucket     string   `json:"bucket"`
	Key        string   `json:"key"`
	Thumbnails []string `json:"thumbnails"`
}
