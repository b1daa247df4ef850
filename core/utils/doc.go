// Package utils holds conversions for loosely typed values: rate limit
// headers, Redis hash fields and provider JSON fields whose type varies
// between int, float and string.
package utils
