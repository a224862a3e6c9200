package server

import "go.uber.org/zap"

// CoreLogger adapts a zap logger to the printf-style logger the Tableau client expects.
type CoreLogger struct {
	sugar *zap.SugaredLogger
}

// NewCoreLogger wraps logger, tagging every entry with component=tableau.
func NewCoreLogger(logger *zap.Logger) *CoreLogger {
	return &CoreLogger{sugar: logger.With(zap.String("component", "tableau")).Sugar()}
}

func (l *CoreLogger) Info(msg string, v ...interface{})  { l.sugar.Infof(msg, v...) }
func (l *CoreLogger) Error(msg string, v ...interface{}) { l.sugar.Errorf(msg, v...) }
func (l *CoreLogger) Debug(msg string, v ...interface{}) { l.sugar.Debugf(msg, v...) }
