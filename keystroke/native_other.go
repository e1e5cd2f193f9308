//go:build !darwin && !linux

package keystroke

func Supported() bool { return false }

func Init() error { return ErrUnsupported }

func sendKeys() error { return ErrUnsupported }
