package service

import "context"

// aiDriveKey marks a context as already running inside driveAI's
// cooperative loop, so a nested command dispatched by the AI driver
// doesn't re-enter driveAI itself. Without this guard, a command that
// leaves turn on another AI seat would recurse through finish -> driveAI
// -> command -> finish for every iteration instead of looping once at
// the top.
type aiDriveKey struct{}

func withAIDrive(ctx context.Context) context.Context {
	return context.WithValue(ctx, aiDriveKey{}, true)
}

func isAIDrive(ctx context.Context) bool {
	v, _ := ctx.Value(aiDriveKey{}).(bool)
	return v
}
