package cache

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчики обращений к кэшу
type Metrics interface {
	ObserveCache(family, result string)
}
