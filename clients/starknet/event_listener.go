package starknet

import "time"

type EventListener interface {
	OnResponse(method string, err error, took time.Duration)
}

type SelectiveListener struct {
	OnResponseCb func(method string, err error, took time.Duration)
}

func (l *SelectiveListener) OnResponse(method string, err error, took time.Duration) {
	if l.OnResponseCb != nil {
		l.OnResponseCb(method, err, took)
	}
}
