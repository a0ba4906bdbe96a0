//go:build !linux

package serial

import "time"

func openNative(cfg ConnectionConfig, readTimeout time.Duration) (Device, error) {
	return nil, ErrNativeUnsupported
}
