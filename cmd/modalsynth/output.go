package main

// output owns the render goroutine: exactly one output calls Render.
type output interface {
	Name() string
	Start()
	Close() error
}
