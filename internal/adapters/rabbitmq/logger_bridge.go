package rabbitmq_adapter

import (
	"rental-hub-service/internal/core/port"
	"rental-hub-service/internal/pkg/rabbitmq"
)

// loggerBridge адаптирует port.LoggerPort под логгер библиотеки rabbitmq.
type loggerBridge struct {
	logger port.LoggerPort
}

func NewLoggerBridge(logger port.LoggerPort) rabbitmq.Logger {
	return &loggerBridge{logger: logger}
}

func kvToFields(keysAndValues []interface{}) port.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make(port.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

func (b *loggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.logger.Debug(msg, kvToFields(keysAndValues))
}

func (b *loggerBridge) Info(msg string, keysAndValues ...interface{}) {
	b.logger.Info(msg, kvToFields(keysAndValues))
}

func (b *loggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.logger.Warn(msg, kvToFields(keysAndValues))
}

func (b *loggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.logger.Error(msg, err, kvToFields(keysAndValues))
}
