// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package doctemplate

import "errors"

// ErrorKind is the machine-readable classification of a template loading
// failure. All resolution failures are terminal for the enclosing request.
type ErrorKind string

const (
	ErrCircularReference     ErrorKind = "CIRCULAR_REFERENCE"
	ErrUnresolvedPlaceholder ErrorKind = "UNRESOLVED_PLACEHOLDER"
	ErrTemplateNotFound      ErrorKind = "TEMPLATE_NOT_FOUND"
	ErrTemplateParse         ErrorKind = "TEMPLATE_PARSE_ERROR"
	ErrUnsupportedFormat     ErrorKind = "UNSUPPORTED_TEMPLATE_FORMAT"
	ErrConfigServer          ErrorKind = "CONFIG_SERVER_ERROR"
	ErrResourceRead          ErrorKind = "RESOURCE_READ_ERROR"
	ErrInvalidPath           ErrorKind = "INVALID_PATH"
)

// LoadError is the typed error surfaced for every template loading failure.
// Key names the offending identifier, path, or placeholder.
type LoadError struct {
	Kind    ErrorKind
	Key     string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError builds a LoadError without an underlying cause.
func NewLoadError(kind ErrorKind, key, message string) *LoadError {
	return &LoadError{Kind: kind, Key: key, Message: message}
}

// WrapLoadError builds a LoadError wrapping an underlying cause.
func WrapLoadError(kind ErrorKind, key, message string, err error) *LoadError {
	return &LoadError{Kind: kind, Key: key, Message: message, Err: err}
}

// KindOf returns the error kind of err, or "" when err is not a LoadError.
func KindOf(err error) ErrorKind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
