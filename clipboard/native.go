//go:build darwin || linux || windows

package clipboard

import xclip "golang.design/x/clipboard"

type nativeReader struct{}

func newBinaryReader() (binaryReader, error) {
	if err := xclip.Init(); err != nil {
		return nil, err
	}
	return nativeReader{}, nil
}

func (nativeReader) hasBinary() bool {
	return len(xclip.Read(xclip.FmtImage)) > 0
}
