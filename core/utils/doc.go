// Package utils provides loose type conversion helpers for provider payloads.
//
// Provider payloads arrive as free-form JSON, so identifiers may be numbers,
// numeric strings or json.Number values. The helpers here normalise them without
// panicking and report whether the conversion was meaningful.
package utils
