package log

import (
	"github.com/sirupsen/logrus"
	waLog "go.mau.fi/whatsmeow/util/log"
)

type whatsmeowLogger struct {
	module string
	entry  *logrus.Entry
}

// WhatsMeow routes whatsmeow's internal logging through logrus.
func WhatsMeow(module string) waLog.Logger {
	return &whatsmeowLogger{
		module: module,
		entry:  logger.WithField("module", module),
	}
}

func (l *whatsmeowLogger) Debugf(msg string, args ...interface{}) {
	l.entry.Debugf(msg, args...)
}

func (l *whatsmeowLogger) Infof(msg string, args ...interface{}) {
	l.entry.Infof(msg, args...)
}

func (l *whatsmeowLogger) Warnf(msg string, args ...interface{}) {
	l.entry.Warnf(msg, args...)
}

func (l *whatsmeowLogger) Errorf(msg string, args ...interface{}) {
	l.entry.Errorf(msg, args...)
}

func (l *whatsmeowLogger) Sub(module string) waLog.Logger {
	return WhatsMeow(l.module + "/" + module)
}
