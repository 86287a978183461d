// Package util provides small generic helpers shared across the module.
//
// It includes slice and map operations, pointer helpers, size parsing for
// config values, secret masking for log output, and common validation
// helpers.
package util
