//go:build !darwin && !linux && !windows

package clipboard

import "errors"

func newBinaryReader() (binaryReader, error) {
	return nil, errors.New("no native clipboard on this platform")
}
