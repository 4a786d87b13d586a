package config

import (
	"io"
	"time"
)

// TimeConfig reads duration values stored as bare integers. The method
// names the unit, so GetMinute("ttl") reads ttl as minutes.
type TimeConfig interface {
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
	GetDay(key string) time.Duration
}

// SignedIntConfig reads signed integer values.
type SignedIntConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
}

// UnsignedIntConfig reads unsigned integer values.
type UnsignedIntConfig interface {
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint32(key string) uint32
	GetUint64(key string) uint64
}

// FloatConfig reads floating-point values.
type FloatConfig interface {
	GetFloat32(key string) float32
	GetFloat64(key string) float64
}

// Config is the read surface handed to modules. Missing or malformed keys
// yield zero values rather than errors; callers that need a fallback check
// for the zero value themselves.
type Config interface {
	io.Closer
	TimeConfig
	SignedIntConfig
	UnsignedIntConfig
	FloatConfig

	GetBool(key string) bool
	GetString(key string) string

	// GetBinary decodes a base64 value, nil when absent or malformed.
	GetBinary(key string) []byte

	// GetArray splits a comma-separated value.
	GetArray(key string) []string

	// GetMap parses a value in the form k1:v1,k2:v2.
	GetMap(key string) map[string]string
}
