// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package services

import (
	"errors"
	"fmt"
)

// UpstreamError wraps a failure from the external agent capability
// (retrieval or generation). Handlers map it to 502 Bad Gateway; it is
// never retried by the gateway and never turned into a fabricated reply.
type UpstreamError struct {
	Err error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream agent failure: %v", e.Err)
}

// Unwrap exposes the underlying failure for errors.Is/As chains.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstreamError reports whether err is (or wraps) an UpstreamError.
// Handlers use this to pick the transport status code.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
