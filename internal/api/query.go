// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"bytes"
	"context"
	"encoding/json"
)

// SubmitQuery posts {query, projectKey, adminUserKey} to the SQL_QUERY webhook
// and returns the parsed response body. The query text is sent unchanged and the
// result is whatever JSON value the webhook returned, with numbers as json.Number;
// interpreting it is up to the caller. Text that is not valid UTF-8 is rejected
// with ErrInvalidUTF8 before anything is sent.
func (c *Client) SubmitQuery(ctx context.Context, query string) (any, error) {
	data, err := c.dispatch(ctx, EndpointSQLQuery, map[string]any{"query": query})
	if err != nil {
		return nil, err
	}
	return decodeValue(data)
}

// decodeValue parses any JSON document. Numbers come back as json.Number so
// large integers and out-of-range values keep their exact text.
func decodeValue(data []byte) (any, error) {
	// Unmarshal into RawMessage only validates, and reports the same errors as
	// a plain Unmarshal would, including empty bodies and trailing data.
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var result any
	if err := dec.Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}
