package handler

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

// rawKeyEvent is the part of an S3 notification needed to read the key
// exactly as sent, without URL decoding.
type rawKeyEvent struct {
	Records []struct {
		S3 struct {
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// ParseObjectKey returns the object key of the first record in an S3
// notification payload (Records[0].s3.object.key). S3 URL-encodes keys in
// notifications; the decoded form is returned when available, otherwise the
// key as sent.
func ParseObjectKey(payload json.RawMessage) (string, error) {
	var ev events.S3Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		// A key with a bad percent escape fails S3Object decoding.
		return parseRawKey(payload)
	}
	if len(ev.Records) == 0 {
		return "", &EventError{Field: "Records"}
	}

	obj := ev.Records[0].S3.Object
	key := obj.URLDecodedKey
	if key == "" {
		key = obj.Key
	}
	if key == "" {
		return "", &EventError{Field: "key"}
	}
	return key, nil
}

func parseRawKey(payload json.RawMessage) (string, error) {
	var ev rawKeyEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return "", &EventError{Field: "Records", Err: err}
	}
	if len(ev.Records) == 0 {
		return "", &EventError{Field: "Records"}
	}
	key := ev.Records[0].S3.Object.Key
	if key == "" {
		return "", &EventError{Field: "key"}
	}
	return key, nil
}
