package orchestration

import (
	"context"

	"github.com/imamik/devlab/internal/config"
)

// Context wraps the dependencies shared by every attempt in a batch.
type Context struct {
	context.Context
	Config   *config.Config
	Timeouts *config.Timeouts
	Observer Observer
}

// NewContext creates an orchestration context with console observability.
func NewContext(ctx context.Context, cfg *config.Config) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Timeouts: config.LoadTimeouts(),
		Observer: NewConsoleObserver(),
	}
}
