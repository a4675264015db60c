//go:build !linux

package handlers

func totalMemory() uint64 {
	return 0
}
