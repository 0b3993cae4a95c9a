// Package cachekey derives deterministic cache keys for research results.
//
// It provides query normalization, confidence banding, and SHA-256 based
// key derivation for both the standard and context-aware storage methods.
package cachekey
