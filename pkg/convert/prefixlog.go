package convert

import "github.com/cyclopcam/logs"

// runLog tags every message of a run with the run's short id.
// Close passes straight through to the wrapped log.
type runLog struct {
	logs.Log
	tag string
}

func newRunLog(log logs.Log, runID string) *runLog {
	return &runLog{
		Log: log,
		tag: "[" + runID[:min(len(runID), 8)] + "] ",
	}
}

func (l *runLog) Debugf(format string, a ...interface{})    { l.Log.Debugf(l.tag+format, a...) }
func (l *runLog) Infof(format string, a ...interface{})     { l.Log.Infof(l.tag+format, a...) }
func (l *runLog) Warnf(format string, a ...interface{})     { l.Log.Warnf(l.tag+format, a...) }
func (l *runLog) Errorf(format string, a ...interface{})    { l.Log.Errorf(l.tag+format, a...) }
func (l *runLog) Criticalf(format string, a ...interface{}) { l.Log.Criticalf(l.tag+format, a...) }
