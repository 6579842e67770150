// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/artverify/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request, percent-decoded.

chi matches on the escaped path whenever the URL carries one (for example a
%2F inside a segment), and the parameter is then still encoded.

Returns:
  - string: The decoded value
  - error: VALIDATION_ERROR naming the parameter when it holds a bad escape
*/
func Param(request *http.Request, name string) (string, error) {
	value := chi.URLParam(request, name)
	if request.URL.RawPath == "" {
		return value, nil
	}

	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", validate.RequiredError(name, "Malformed percent-encoding")
	}
	return decoded, nil
}

/*
IntID parses a named URL parameter as a positive integer identifier.

Returns:
  - int: The parsed ID
  - error: VALIDATION_ERROR naming the parameter when it is not a positive integer
*/
func IntID(request *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(request, name))
	if err != nil || id <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return id, nil
}
