//go:build !debug

package throttle

func statSpawned() {}
func statHandoff() {}
