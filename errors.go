// Copyright 2025 Rotational Labs
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llsd

import "errors"

var (
	// ErrBadSignature occurs when a format parser is invoked directly but
	// the leading bytes don't match that format's required signature.
	ErrBadSignature = errors.New("llsd: bad format signature")

	// ErrUnknownTag occurs when a binary or notation parser reads a type
	// tag byte it doesn't recognize.
	ErrUnknownTag = errors.New("llsd: unknown type tag")

	// ErrTruncated occurs when a parser needs more bytes than the stream
	// has remaining to complete the current token.
	ErrTruncated = errors.New("llsd: truncated input")

	// ErrUnclosedContainer occurs at EOF when the state stack has not
	// unwound back to TOP_LEVEL, i.e. an array or map was opened but
	// never closed.
	ErrUnclosedContainer = errors.New("llsd: unclosed array or map")

	// ErrTrailingData occurs when a complete value has already been read
	// at the top level and more non-whitespace input follows.
	ErrTrailingData = errors.New("llsd: trailing data after top-level value")

	// ErrDuplicateKey occurs when a parsed document binds the same map
	// key twice; Builder rejects the second binding. Programmatic
	// Map.Insert is different — re-insertion through the API replaces
	// the prior binding (§3.2) rather than erroring.
	ErrDuplicateKey = errors.New("llsd: duplicate map key")

	// ErrMapKeyNotString occurs when a map key position in the event
	// stream receives anything other than a string value.
	ErrMapKeyNotString = errors.New("llsd: map key must be a string")

	// ErrBadUUID occurs when a UUID literal is the wrong length or
	// contains non-hex characters.
	ErrBadUUID = errors.New("llsd: malformed uuid literal")

	// ErrBadDate occurs when a date literal is not parseable ISO-8601.
	ErrBadDate = errors.New("llsd: malformed date literal")

	// ErrBadEncoding occurs when a base16/64/85 payload contains
	// characters outside its alphabet or has an invalid length.
	ErrBadEncoding = errors.New("llsd: malformed binary encoding")

	// ErrType occurs when a coercion (As*) or container operation is
	// attempted against a Value of the wrong Type. Promoted to an error
	// return at the public boundary; see Design Notes §9 on assertion
	// failures.
	ErrType = errors.New("llsd: type error")

	// ErrNotContainer occurs when GetSize is called on a scalar Value.
	ErrNotContainer = errors.New("llsd: value is not array or map")

	// ErrCallbackRejected is a sentinel a user-supplied Sink may return
	// (or wrap) to decline an event; any error from a Sink method aborts
	// the enclosing parse or serialize (§7 kind 5).
	ErrCallbackRejected = errors.New("llsd: sink callback rejected event")

	// ErrUnregisteredFormat occurs when Serialize or ParseFormat is asked
	// for a Format with no registered driver.
	ErrUnregisteredFormat = errors.New("llsd: no driver registered for format")
)
