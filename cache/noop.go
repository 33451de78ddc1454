package cache

import "context"

// Noop is used when REDIS_ADDR is unset: every Get misses and writes are dropped.
type Noop struct{}

var _ Store = Noop{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, interface{}) error         { return nil }
func (Noop) DeletePattern(context.Context, string) error            { return nil }
func (Noop) Ping(context.Context) error                             { return nil }
