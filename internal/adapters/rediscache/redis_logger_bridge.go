package rediscache

import (
	"property-service/internal/core/port"
	pkgredis "property-service/pkg/redis"
)

// RedisLoggerBridge adapts the internal LoggerPort to the pkg/redis logging
// interface.
type RedisLoggerBridge struct {
	internalLogger port.LoggerPort
}

func NewRedisLoggerBridge(logger port.LoggerPort) pkgredis.Logger {
	return &RedisLoggerBridge{internalLogger: logger}
}

func (b *RedisLoggerBridge) toFields(keysAndValues ...interface{}) port.Fields {
	fields := make(port.Fields, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok || i+1 >= len(keysAndValues) {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

func (b *RedisLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Debug(msg, b.toFields(keysAndValues...))
}

func (b *RedisLoggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Warn(msg, b.toFields(keysAndValues...))
}

func (b *RedisLoggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.internalLogger.Error(msg, err, b.toFields(keysAndValues...))
}
