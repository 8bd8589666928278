// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2026-present Datadog, Inc.

package manifest

import (
	"errors"
	"fmt"

	"github.com/DataDog/etw-manifest-decoder/pkg/etw/schema"
)

// ErrInvalidArgument is returned when the metadata service rejects a request
// as malformed. It is a defect of the caller, never a property of the data.
var ErrInvalidArgument = errors.New("invalid argument to the metadata service")

// ProviderNotFoundError is returned when a provider has no registered manifest.
type ProviderNotFoundError struct {
	Provider schema.ProviderID
}

func (e *ProviderNotFoundError) Error() string {
	return fmt.Sprintf("provider %s has no registered manifest", e.Provider)
}

// IsProviderNotFound reports whether err is, or wraps, a ProviderNotFoundError.
func IsProviderNotFound(err error) bool {
	var notFound *ProviderNotFoundError
	return errors.As(err, &notFound)
}
