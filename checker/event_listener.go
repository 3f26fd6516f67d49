package checker

import "time"

type EventListener interface {
	OnClassified(kind Kind, took time.Duration)
}

type SelectiveListener struct {
	OnClassifiedCb func(kind Kind, took time.Duration)
}

func (l *SelectiveListener) OnClassified(kind Kind, took time.Duration) {
	if l.OnClassifiedCb != nil {
		l.OnClassifiedCb(kind, took)
	}
}
